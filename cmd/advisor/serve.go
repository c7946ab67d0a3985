package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"CryptoAdvisor/internal/metrics"
	"CryptoAdvisor/internal/scheduler"
	"CryptoAdvisor/internal/server"
	"CryptoAdvisor/internal/strategy"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the ranking scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg, os.Stdout)
			log.Info().Msg("CryptoAdvisor starting")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			m := metrics.New()
			engine := strategy.NewEngine(nil)
			if err := engine.Catalog().Validate(); err != nil {
				return fmt.Errorf("strategy catalog: %w", err)
			}

			col := newCollector(ctx, cfg, m, log, false)
			rec := newRecorder(cfg, log)
			defer rec.Close()
			pub := newPublisher(cfg, log)
			defer pub.Close()
			store, closeStore, err := newPortfolioStore(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("portfolio store: %w", err)
			}
			defer closeStore()

			sched := scheduler.NewScheduler(ctx, col, engine, rec, pub, m, log)
			if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.SnapshotCron); err != nil {
				return fmt.Errorf("register cron tasks: %w", err)
			}
			sched.Start()
			defer sched.Stop()

			if cfg.Schedule.RunOnStart {
				log.Info().Msg("RUN_ON_START enabled, taking a ranking snapshot now")
				go sched.RunSnapshotNow()
			}

			srv := server.New(server.Config{
				Addr:           cfg.Server.Addr,
				Log:            log,
				Metrics:        m,
				Markets:        col,
				Engine:         engine,
				Narrator:       newNarrator(ctx, cfg, m, log),
				Recorder:       rec,
				Portfolios:     store,
				DemoUserID:     cfg.DemoUserID,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				ReadTimeout:    cfg.Server.ReadTimeout,
				WriteTimeout:   cfg.Server.WriteTimeout,
				RequestTimeout: cfg.Server.RequestTimeout,
			})

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
			case <-ctx.Done():
				log.Info().Msg("shutdown signal received, stopping")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("http shutdown")
			}
			log.Info().Msg("CryptoAdvisor stopped")
			return nil
		},
	}
}
