package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/insights/internal/client"
	httpSrv "github.com/jmehdipour/insights/internal/http"
	"github.com/jmehdipour/insights/internal/logger"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve the dashboard page backed by the accounts API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		api := client.New(cfg.Dashboard.APIBaseURL, cfg.Dashboard.FetchTimeout)
		server := httpSrv.NewDashboardServer(cfg, api)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start(cfg.Dashboard.Addr) }()

		logger.Log.Info("dashboard started",
			zap.String("addr", cfg.Dashboard.Addr),
			zap.String("api", cfg.Dashboard.APIBaseURL))

		select {
		case <-ctx.Done():
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.Error("dashboard server exited", zap.Error(err))
			}
		}

		return shutdown(server, cfg.HTTP.ShutdownTimeout)
	},
}
