package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/statforge/internal/game/skill"
	"github.com/udisondev/statforge/internal/game/timeunit"
	"github.com/udisondev/statforge/internal/sim"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	sheet  string
	addr   string
	entity string
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd(opts *globalOptions) *cobra.Command {
	so := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a live entity on the real-time update loop",
		Long: `Build an entity from a sheet and drive it with the update loop until
SIGINT/SIGTERM. Serves /stats, /effects/{name} (POST applies, DELETE
removes), /healthz and /metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts, so)
		},
	}

	cmd.Flags().StringVar(&so.sheet, "sheet", "", "sheet to build the entity from (overrides config)")
	cmd.Flags().StringVar(&so.addr, "addr", "", "HTTP listen address (overrides config metrics_addr)")
	cmd.Flags().StringVar(&so.entity, "entity", "live", "entity id")

	return cmd
}

func runServe(cmd *cobra.Command, opts *globalOptions, so *serveOptions) error {
	cfg, err := opts.load(cmd)
	if err != nil {
		return err
	}
	if so.sheet != "" {
		cfg.Sheet = so.sheet
	}
	if so.addr != "" {
		cfg.MetricsAddr = so.addr
	}

	c, err := loadContent(cmd, cfg)
	if err != nil {
		return err
	}
	entity, err := sim.NewEntity(so.entity, c, cfg.Sheet, slog.Default())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	skill.RegisterMetrics(reg)

	loop := timeunit.NewLoop(entity.Clock, cfg.FrameInterval, slog.Default())
	httpSrv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           sim.NewServer(loop, entity, reg).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return loop.Run(gctx)
	})

	g.Go(func() error {
		slog.Info("http server started", "addr", cfg.MetricsAddr, "entity", entity.ID, "sheet", cfg.Sheet)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("statsim stopped", "clock", entity.Clock.Now())
	return nil
}
