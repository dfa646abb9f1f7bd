package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/luxegem-ledger/internal/container"
	httpserver "github.com/garyjia/luxegem-ledger/internal/interfaces/http"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return Serve(ctx, a.c)
		},
	}
}

// Serve runs the HTTP API on a started container until ctx is cancelled.
func Serve(ctx context.Context, c *container.Container) error {
	cfg := c.Config()
	services := c.Services()

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			MetricsPath:  cfg.Metrics.Path,
		},
		services.Customer,
		services.Billing,
		c.MetricsHandler(),
		c.HealthCheck,
		container.NewZapLoggerAdapter(c.Logger()),
	)

	c.Logger().Info("Ledger API starting", zap.String("address", server.Address()))
	return server.Start(ctx)
}
