package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udisondev/statforge/internal/db"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Run all pending database migrations against the configured PostgreSQL database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			cmd.Println("Running migrations...")
			if err := db.RunMigrations(cmd.Context(), cfg.Database.DSN()); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}
			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}
