package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"storefront/pkg/utils"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Storefront backend: accounts, products and carts over HTTP",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", ".env", "env file to read settings from; environment variables take precedence")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger every subcommand shares.
func setup() (*utils.Config, *zap.Logger, error) {
	cfg, err := utils.LoadConfig(viper.New(), configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := utils.InitLogger(cfg.App.LogPath, cfg.App.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger.With(zap.String("app", cfg.App.Name)), nil
}
