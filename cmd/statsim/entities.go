package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/udisondev/statforge/internal/db"
)

// entityStore is the part of db.StatRepository the entities commands use.
type entityStore interface {
	ListEntities(ctx context.Context) ([]string, error)
	DeleteEntity(ctx context.Context, entityID string) (int64, error)
}

// NewEntitiesCmd creates the entities subcommand for managing saved
// entity values.
func NewEntitiesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities",
		Short: "Manage saved entity base values",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List entities with saved base values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, opts, func(store entityStore) error {
				return listEntities(cmd.Context(), store, cmd.OutOrStdout())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <entity>...",
		Short: "Delete saved base values of entities",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(store entityStore) error {
				return deleteEntities(cmd.Context(), store, cmd.OutOrStdout(), args)
			})
		},
	})

	return cmd
}

func withStore(cmd *cobra.Command, opts *globalOptions, fn func(entityStore) error) error {
	cfg, err := opts.load(cmd)
	if err != nil {
		return err
	}
	database, err := db.New(cmd.Context(), cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	return fn(database.Stats())
}

func listEntities(ctx context.Context, store entityStore, out io.Writer) error {
	ids, err := store.ListEntities(ctx)
	if err != nil {
		return fmt.Errorf("listing entities: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(out, "no saved entities")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	return nil
}

func deleteEntities(ctx context.Context, store entityStore, out io.Writer, ids []string) error {
	for _, id := range ids {
		n, err := store.DeleteEntity(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting entity %q: %w", id, err)
		}
		fmt.Fprintf(out, "deleted %s: %d stats\n", id, n)
	}
	return nil
}
