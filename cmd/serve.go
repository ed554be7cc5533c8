package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/insights/internal/config"
	"github.com/jmehdipour/insights/internal/db"
	httpSrv "github.com/jmehdipour/insights/internal/http"
	"github.com/jmehdipour/insights/internal/kafka"
	"github.com/jmehdipour/insights/internal/logger"
	"github.com/jmehdipour/insights/internal/repository"
	"github.com/jmehdipour/insights/internal/service/accounts"
	"github.com/jmehdipour/insights/internal/source"
	"github.com/jmehdipour/insights/internal/worker"
)

var serveIngest bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the accounts API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		loader, closeSource, err := newLoader(cfg)
		if err != nil {
			return err
		}
		defer closeSource()

		svc := accounts.New()
		if _, err := source.Apply(ctx, svc, loader); err != nil {
			return fmt.Errorf("load accounts: %w", err)
		}

		var rds *redis.Client
		if cfg.Redis.Enabled {
			rds, err = db.NewRedisClient(cfg.Redis)
			if err != nil {
				// the limiter fails open; the API still serves
				logger.Log.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
			} else {
				defer func() { _ = rds.Close() }()
			}
		}

		if serveIngest {
			stopIngest, err := startIngest(ctx, cfg, svc)
			if err != nil {
				return err
			}
			defer stopIngest()
		}

		server := httpSrv.NewServer(cfg, svc, rds)

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start(cfg.HTTP.Addr) }()

		select {
		case <-ctx.Done():
			logger.Log.Info("signal received, shutting down")
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.Error("http server exited", zap.Error(err))
			}
		}

		return shutdown(server, cfg.HTTP.ShutdownTimeout)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveIngest, "ingest", false, "also consume the Kafka account stream into MySQL and the served dataset")
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func shutdown(s shutdowner, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// newLoader picks the startup source from source.kind.
func newLoader(cfg config.Config) (source.Loader, func(), error) {
	noop := func() {}

	switch cfg.Source.Kind {
	case "", source.KindCSV:
		return source.CSV{Path: cfg.Source.CSVPath}, noop, nil

	case source.KindMySQL:
		dbx, err := db.NewMySQLConnection(cfg.MySQL)
		if err != nil {
			return nil, noop, fmt.Errorf("mysql connect: %w", err)
		}
		return source.Table{Kind: source.KindMySQL, Repo: repository.NewAccountsRepository(dbx)},
			func() { _ = dbx.Close() }, nil

	case source.KindClickHouse:
		chDB, err := db.NewClickHouseConnection(cfg.ClickHouse)
		if err != nil {
			return nil, noop, fmt.Errorf("clickhouse connect: %w", err)
		}
		return source.Table{Kind: source.KindClickHouse, Repo: repository.NewCHAccountsRepository(chDB)},
			func() { _ = chDB.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// startIngest runs the Kafka ingest worker in the background, mirroring
// accepted rows into svc.
func startIngest(ctx context.Context, cfg config.Config, svc *accounts.Service) (func(), error) {
	dbx, err := db.NewMySQLConnection(cfg.MySQL)
	if err != nil {
		return nil, fmt.Errorf("mysql connect: %w", err)
	}
	consumer := kafka.NewConsumerFromConfig(kafka.ConfigFrom(cfg.Kafka))

	w := worker.NewIngestKafka(consumer, repository.NewAccountsRepository(dbx), svc)
	if cfg.Ingest.BatchSize > 0 {
		w.BatchSize = cfg.Ingest.BatchSize
	}
	if cfg.Ingest.BatchWait > 0 {
		w.BatchWait = cfg.Ingest.BatchWait
	}

	ictx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ictx); err != nil {
			logger.Log.Error("ingest worker", zap.Error(err))
		}
	}()

	return func() {
		cancel()
		<-done
		_ = consumer.Close()
		_ = dbx.Close()
	}, nil
}
