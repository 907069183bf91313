package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/udisondev/statforge/internal/db"
	"github.com/udisondev/statforge/internal/sim"
)

type simulateOptions struct {
	sheet  string
	script string
	entity string
	load   bool
	save   bool
}

// NewSimulateCmd creates the simulate subcommand.
func NewSimulateCmd(opts *globalOptions) *cobra.Command {
	so := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a scripted scenario on a stepped clock",
		Long: `Build an entity from a sheet and play a YAML script against it, advancing
the clock frame by frame. Prints stat tables at "print" steps and at the end.
With --load/--save the entity's base values are read from and written to
PostgreSQL.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, opts, so)
		},
	}

	cmd.Flags().StringVar(&so.sheet, "sheet", "", "sheet to build the entity from (overrides config)")
	cmd.Flags().StringVar(&so.script, "script", "", "simulation script (YAML)")
	cmd.Flags().StringVar(&so.entity, "entity", "sim", "entity id used for persistence")
	cmd.Flags().BoolVar(&so.load, "load", false, "restore base values from the database before the run")
	cmd.Flags().BoolVar(&so.save, "save", false, "save base values to the database after the run")
	_ = cmd.MarkFlagRequired("script")

	return cmd
}

func runSimulate(cmd *cobra.Command, opts *globalOptions, so *simulateOptions) error {
	cfg, err := opts.load(cmd)
	if err != nil {
		return err
	}
	if so.sheet != "" {
		cfg.Sheet = so.sheet
	}

	c, err := loadContent(cmd, cfg)
	if err != nil {
		return err
	}
	script, err := sim.LoadScript(so.script)
	if err != nil {
		return err
	}
	entity, err := sim.NewEntity(so.entity, c, cfg.Sheet, slog.Default())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var store *db.StatRepository
	if so.load || so.save {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return err
		}
		defer database.Close()
		store = database.Stats()
	}

	if so.load {
		n, err := entity.LoadFrom(ctx, store)
		if err != nil {
			return err
		}
		slog.Info("entity restored", "entity", entity.ID, "stats", n)
	}

	if err := entity.Run(script, cfg.FrameInterval, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("running %s: %w", so.script, err)
	}

	if so.save {
		// Effects still active are dropped; only base values persist.
		if err := entity.SaveTo(ctx, store); err != nil {
			return err
		}
		slog.Info("entity saved", "entity", entity.ID)
	}
	return nil
}
