package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmehdipour/insights/cmd/worker"
	"github.com/jmehdipour/insights/internal/config"
	"github.com/jmehdipour/insights/internal/logger"
)

var (
	cfgPath string
	rootCmd = &cobra.Command{
		Use:   "insights",
		Short: "Customer insights API, dashboard and ingestion tools",
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(worker.NewWorkerCmd())
}

// loadConfig reads the config and initializes the global logger from it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)
	return cfg, nil
}
