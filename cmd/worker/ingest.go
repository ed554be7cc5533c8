package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/insights/internal/config"
	"github.com/jmehdipour/insights/internal/db"
	"github.com/jmehdipour/insights/internal/kafka"
	"github.com/jmehdipour/insights/internal/logger"
	"github.com/jmehdipour/insights/internal/repository"
	"github.com/jmehdipour/insights/internal/worker"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Consume account events from Kafka and upsert them into MySQL",
	RunE:  runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)
	defer logger.Sync()

	// 2) MySQL sink
	dbx, err := db.NewMySQLConnection(cfg.MySQL)
	if err != nil {
		return fmt.Errorf("mysql connect: %w", err)
	}
	defer dbx.Close()

	// 3) kafka consumer
	kc := kafka.ConfigFrom(cfg.Kafka)
	if kc.GroupID == "" {
		kc.GroupID = "insights-ingest"
	}
	consumer := kafka.NewConsumerFromConfig(kc)
	defer consumer.Close()

	w := worker.NewIngestKafka(consumer, repository.NewAccountsRepository(dbx), nil)
	if cfg.Ingest.BatchSize > 0 {
		w.BatchSize = cfg.Ingest.BatchSize
	}
	if cfg.Ingest.BatchWait > 0 {
		w.BatchWait = cfg.Ingest.BatchWait
	}

	// 4) graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.Info("ingest worker started",
		zap.String("topic", kc.Topic),
		zap.String("group", kc.GroupID),
		zap.Int("batch_size", w.BatchSize),
		zap.Duration("batch_wait", w.BatchWait))

	return w.Run(ctx)
}
