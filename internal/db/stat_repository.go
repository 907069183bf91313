package db

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// poolIface is the subset of *pgxpool.Pool used by repositories.
// pgxmock pools satisfy it too.
type poolIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// StatRepository persists per-entity stat base values.
// Current values are derived from live modifiers and are never stored.
type StatRepository struct {
	db poolIface
}

// NewStatRepository creates a new StatRepository.
func NewStatRepository(db poolIface) *StatRepository {
	return &StatRepository{db: db}
}

// SaveBaseValues replaces the stored base values of entityID.
// Deletes the old rows and inserts the new ones in one transaction.
func (r *StatRepository) SaveBaseValues(ctx context.Context, entityID string, values map[string]float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := saveBaseValues(ctx, tx, entityID, values); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing stat snapshot for %q: %w", entityID, err)
	}
	return nil
}

func saveBaseValues(ctx context.Context, tx pgx.Tx, entityID string, values map[string]float64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM stat_snapshots WHERE entity_id = $1`, entityID); err != nil {
		return fmt.Errorf("deleting stat snapshot for %q: %w", entityID, err)
	}

	// Sorted for a stable statement order.
	for _, name := range slices.Sorted(maps.Keys(values)) {
		if _, err := tx.Exec(ctx,
			`INSERT INTO stat_snapshots (entity_id, stat_name, base_value) VALUES ($1, $2, $3)`,
			entityID, name, values[name],
		); err != nil {
			return fmt.Errorf("inserting stat %q for %q: %w", name, entityID, err)
		}
	}
	return nil
}

// LoadBaseValues returns the stored base values of entityID.
// An unknown entity yields an empty map.
func (r *StatRepository) LoadBaseValues(ctx context.Context, entityID string) (map[string]float64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT stat_name, base_value FROM stat_snapshots WHERE entity_id = $1`, entityID)
	if err != nil {
		return nil, fmt.Errorf("querying stat snapshot for %q: %w", entityID, err)
	}
	defer rows.Close()

	values := make(map[string]float64)
	for rows.Next() {
		var (
			name  string
			value float64
		)
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scanning stat snapshot row: %w", err)
		}
		values[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stat snapshot rows: %w", err)
	}
	return values, nil
}

// DeleteEntity removes every stored value of entityID and returns the
// number of rows deleted.
func (r *StatRepository) DeleteEntity(ctx context.Context, entityID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM stat_snapshots WHERE entity_id = $1`, entityID)
	if err != nil {
		return 0, fmt.Errorf("deleting stat snapshot for %q: %w", entityID, err)
	}
	return tag.RowsAffected(), nil
}

// ListEntities returns the ids of every entity with stored values, sorted.
func (r *StatRepository) ListEntities(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT entity_id FROM stat_snapshots ORDER BY entity_id`)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collecting entities: %w", err)
	}
	return ids, nil
}
