package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"expired-listings/metrics"
	"expired-listings/report"
	"expired-listings/server"
	"expired-listings/services"
	"expired-listings/storage"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the upload and results web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			logger.Info("=== Expired Listings Analyzer starting ===")
			logger.Info("Config: env %s | store %s | upload limit %d MB | load concurrency %d",
				cfg.AppEnv, cfg.StoreDriver, cfg.MaxUploadMB, cfg.LoadConcurrency)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := storage.Open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			pdf := report.NewPDFRenderer(cfg.ChromeBin, cfg.MaxRetries, logger)
			if !pdf.Available() {
				logger.Warn("[serve] No Chrome or Chromium found, PDF reports are disabled")
			}

			srv, err := server.NewServer(cfg, server.Deps{
				Store:     store,
				Analyzer:  services.NewAnalyzer(logger, cfg.LoadConcurrency),
				Formatter: services.NewFormatter(cfg.Cities()),
				Insights:  services.NewInsightService(logger),
				PDF:       pdf,
				Registry:  metrics.NewRegistry(),
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("Shutdown signal received, cleaning up...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Server shutdown error: %v", err)
				return err
			}

			logger.Info("=== Shutdown complete ===")
			return nil
		},
	}
}
