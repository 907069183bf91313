package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/udisondev/statforge/internal/config"
	"github.com/udisondev/statforge/internal/content"
)

const defaultConfigPath = "config/statsim.yaml"

// globalOptions are the persistent flags shared by all subcommands.
type globalOptions struct {
	configPath string
	contentDir string
	logLevel   string
}

// NewRootCmd creates the root command for the statsim CLI.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "statsim",
		Short: "Stat and skill effect simulator",
		Long: `statsim loads stat, sheet and effect definitions from YAML content and
runs them against a skills system: validate content, play scripted
simulations, or serve a live entity with metrics.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "config file path")
	cmd.PersistentFlags().StringVar(&opts.contentDir, "content", "", "content directory (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	cmd.AddCommand(NewValidateCmd(opts))
	cmd.AddCommand(NewSimulateCmd(opts))
	cmd.AddCommand(NewServeCmd(opts))
	cmd.AddCommand(NewMigrateCmd(opts))
	cmd.AddCommand(NewEntitiesCmd(opts))

	return cmd
}

// load reads the config, applies flag overrides and installs the default
// logger on the command's stderr.
func (o *globalOptions) load(cmd *cobra.Command) (config.Simulator, error) {
	cfg, err := config.LoadSimulator(o.configPath)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if o.contentDir != "" {
		cfg.ContentDir = o.contentDir
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return cfg, nil
}

// loadContent loads the configured content directory, reporting the error
// code on failure.
func loadContent(cmd *cobra.Command, cfg config.Simulator) (*content.Content, error) {
	c, err := content.LoadDir(cfg.ContentDir)
	if err != nil {
		if code := content.ErrorCode(err); code != "" {
			cmd.PrintErrf("content error [%s]: %v\n", code, err)
		}
		return nil, fmt.Errorf("loading content: %w", err)
	}
	return c, nil
}
