package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		application, err := app.New(ctx, cfg, log)
		if err != nil {
			log.Error("Failed to start", zap.Error(err))
			return err
		}

		if err := application.StartAuditConsumer(); err != nil {
			log.Warn("Failed to start audit consumer", zap.Error(err))
		}

		serverErr := make(chan error, 1)
		go func() {
			serverErr <- application.Listen()
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			log.Info("Shutting down server...", zap.String("signal", sig.String()))
		case err := <-serverErr:
			if err != nil {
				log.Error("Server failed", zap.Error(err))
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := application.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during shutdown", zap.Error(err))
			return err
		}

		log.Info("Server gracefully stopped")
		return nil
	},
}
