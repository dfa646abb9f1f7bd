// Package cli implements the ledgerctl operator commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/luxegem-ledger/internal/config"
	"github.com/garyjia/luxegem-ledger/internal/container"
	"github.com/garyjia/luxegem-ledger/pkg/utils"
)

var version = "dev"

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operate the LuxeGem customer ledger",
		Long: `ledgerctl manages the LuxeGem customer ledger.

It prices invoice line items, lists reconciled customer profiles, edits and
imports manual customer records, mirrors issued invoices into the local
database and runs the HTTP API.

Configuration is read from --config (YAML), a .env file in the working
directory and LEDGER_* environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: $LEDGER_CONFIG or configs/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(
		newQuoteCmd(),
		newCustomersCmd(),
		newInvoicesCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is a started container plus the loaded configuration.
type app struct {
	cfg    *config.Config
	c      *container.Container
	logger *zap.Logger
}

func (a *app) Close() {
	if err := a.c.Close(); err != nil {
		a.logger.Warn("Failed to close container", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.ConfigPathFromEnv("configs/config.yaml")
	}
	return config.Load(path)
}

// openApp loads configuration and starts the container with a CLI logger.
func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := utils.NewCLILogger(verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		return nil, err
	}
	if err := c.Start(ctx); err != nil {
		return nil, err
	}

	return &app{cfg: cfg, c: c, logger: logger.With(zap.String("component", cmd.Name()))}, nil
}
