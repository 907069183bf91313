package db

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatRepository_SaveBaseValues(t *testing.T) {
	values := map[string]float64{"Mana": 10, "Health": 42.5}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   bool
		errMsg    string
	}{
		{
			name: "replaces snapshot in one transaction",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM stat_snapshots`).
					WithArgs("hero-1").
					WillReturnResult(pgxmock.NewResult("DELETE", 3))
				mock.ExpectExec(`INSERT INTO stat_snapshots`).
					WithArgs("hero-1", "Health", 42.5).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(`INSERT INTO stat_snapshots`).
					WithArgs("hero-1", "Mana", 10.0).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "begin fails",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
			errMsg:  "beginning transaction",
		},
		{
			name: "insert fails rolls back",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM stat_snapshots`).
					WithArgs("hero-1").
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
				mock.ExpectExec(`INSERT INTO stat_snapshots`).
					WithArgs("hero-1", "Health", 42.5).
					WillReturnError(errors.New("disk full"))
				mock.ExpectRollback()
			},
			wantErr: true,
			errMsg:  `inserting stat "Health"`,
		},
		{
			name: "commit fails",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM stat_snapshots`).
					WithArgs("hero-1").
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
				mock.ExpectExec(`INSERT INTO stat_snapshots`).
					WithArgs("hero-1", "Health", 42.5).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(`INSERT INTO stat_snapshots`).
					WithArgs("hero-1", "Mana", 10.0).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
			},
			wantErr: true,
			errMsg:  "committing stat snapshot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewStatRepository(mock)
			err = repo.SaveBaseValues(context.Background(), "hero-1", values)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestStatRepository_LoadBaseValues(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      map[string]float64
		wantErr   bool
	}{
		{
			name: "returns stored values",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"stat_name", "base_value"}).
					AddRow("Health", 42.5).
					AddRow("Mana", 10.0)
				mock.ExpectQuery(`SELECT stat_name, base_value FROM stat_snapshots`).
					WithArgs("hero-1").
					WillReturnRows(rows)
			},
			want: map[string]float64{"Health": 42.5, "Mana": 10},
		},
		{
			name: "unknown entity is empty",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT stat_name, base_value FROM stat_snapshots`).
					WithArgs("hero-1").
					WillReturnRows(pgxmock.NewRows([]string{"stat_name", "base_value"}))
			},
			want: map[string]float64{},
		},
		{
			name: "query error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT stat_name, base_value FROM stat_snapshots`).
					WithArgs("hero-1").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
		{
			name: "row error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"stat_name", "base_value"}).
					AddRow("Health", 1.0).
					RowError(0, errors.New("broken row"))
				mock.ExpectQuery(`SELECT stat_name, base_value FROM stat_snapshots`).
					WithArgs("hero-1").
					WillReturnRows(rows)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			got, err := NewStatRepository(mock).LoadBaseValues(context.Background(), "hero-1")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestStatRepository_DeleteEntity(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM stat_snapshots`).
		WithArgs("hero-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectExec(`DELETE FROM stat_snapshots`).
		WithArgs("hero-2").
		WillReturnError(errors.New("connection refused"))

	repo := NewStatRepository(mock)
	n, err := repo.DeleteEntity(context.Background(), "hero-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	_, err = repo.DeleteEntity(context.Background(), "hero-2")
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatRepository_ListEntities(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT DISTINCT entity_id FROM stat_snapshots`).
		WillReturnRows(pgxmock.NewRows([]string{"entity_id"}).AddRow("a").AddRow("b"))

	ids, err := NewStatRepository(mock).ListEntities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
