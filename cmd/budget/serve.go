package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"budget/internal/cli"
	apphttp "budget/internal/http"
	"budget/internal/log"
)

var flagPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger over a JSON HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&flagPort, "port", "p", "", "Listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := appConfig
	logger := appLogger.WithComponent(log.ComponentApp)
	if flagPort != "" {
		cfg.Port = flagPort
	}

	ctx, cancel := cli.SignalContext(cmd.Context(), logger)
	defer cancel()

	return withSession(ctx, func(sess *cli.Session) error {
		sess.Caches.StartCleanup(cfg.SummaryCacheTTL)

		srv := apphttp.NewServer(":"+cfg.Port, sess.Store, apphttp.Options{
			Currency:           cfg.Currency,
			Palette:            cfg.ChartPalette,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
			Logger:             appLogger,
		})

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("Server starting",
				log.FieldOperation, log.OpStartup,
				"port", cfg.Port,
				log.FieldBackend, cfg.DataBackend)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("Shutting down server", log.FieldOperation, log.OpShutdown)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cli.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Server shutdown error", log.FieldError, err)
				return err
			}

			m := srv.Metrics()
			logger.Info("Server stopped", "total_requests", m.TotalRequests)
			return nil
		})
		return g.Wait()
	})
}
