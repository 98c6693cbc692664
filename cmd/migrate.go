package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/repositories"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables and unique indexes, then exit",
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

		store, err := repositories.Open(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		if err := store.Migrate(ctx); err != nil {
			log.Error("Migration failed", zap.Error(err))
			return err
		}

		log.Info("Migration complete", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}
