package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jmehdipour/insights/internal/ingest"
	"github.com/jmehdipour/insights/internal/kafka"
	"github.com/jmehdipour/insights/internal/logger"
	"github.com/jmehdipour/insights/internal/metrics"
	"github.com/jmehdipour/insights/internal/model"
	"github.com/jmehdipour/insights/internal/repository"
	"github.com/jmehdipour/insights/internal/service/accounts"
)

const (
	DefaultBatchSize = 200
	DefaultBatchWait = 300 * time.Millisecond
	DefaultRetryWait = time.Second
)

// Consumer is the part of kafka.Consumer the worker needs.
type Consumer interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, msgs ...kafka.Message) error
}

// IngestKafka:
// - fetches account events (JSON objects keyed by CSV column) from Kafka,
// - normalizes them with the CSV rules,
// - upserts valid rows into MySQL in size/time batches.
//
// Offsets are committed in fetch order, and only once every valid row up to
// that offset is written. A failed write stops consumption and is retried.
type IngestKafka struct {
	Consumer Consumer
	Accounts repository.AccountsRepository
	Dataset  *accounts.Service // optional in-memory mirror

	BatchSize int
	BatchWait time.Duration
	RetryWait time.Duration
}

func NewIngestKafka(consumer Consumer, repo repository.AccountsRepository, dataset *accounts.Service) *IngestKafka {
	return &IngestKafka{
		Consumer:  consumer,
		Accounts:  repo,
		Dataset:   dataset,
		BatchSize: DefaultBatchSize,
		BatchWait: DefaultBatchWait,
		RetryWait: DefaultRetryWait,
	}
}

// pending holds fetched but uncommitted messages. msgs includes poison and
// invalid events so commits never run ahead of unwritten rows.
type pending struct {
	accounts []model.Account
	msgs     []kafka.Message
	since    time.Time
	stalled  bool // last write failed; batch kept for retry
}

func (p *pending) add(m kafka.Message) {
	if p.since.IsZero() {
		p.since = time.Now()
	}
	p.msgs = append(p.msgs, m)
}

// Run blocks until ctx is cancelled. The batch in flight is flushed on the
// way out.
func (w *IngestKafka) Run(ctx context.Context) error {
	if w.Consumer == nil || w.Accounts == nil {
		return errors.New("ingest-kafka: consumer and repository are required")
	}
	if w.BatchSize <= 0 {
		w.BatchSize = DefaultBatchSize
	}
	if w.BatchWait <= 0 {
		w.BatchWait = DefaultBatchWait
	}
	if w.RetryWait <= 0 {
		w.RetryWait = DefaultRetryWait
	}

	var p pending
	for {
		if p.stalled {
			select {
			case <-ctx.Done():
				w.flush(context.WithoutCancel(ctx), &p)
				return nil
			case <-time.After(w.RetryWait):
			}
			w.flush(ctx, &p)
			continue
		}

		fctx, cancel := context.WithTimeout(ctx, w.BatchWait)
		m, err := w.Consumer.Fetch(fctx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				w.flush(context.WithoutCancel(ctx), &p)
				return nil
			}
			if errors.Is(err, context.DeadlineExceeded) {
				w.flush(ctx, &p)
				continue
			}
			logger.Log.Warn("ingest: kafka fetch", zap.Error(err))
			time.Sleep(200 * time.Millisecond)
			continue
		}

		w.handle(m, &p)

		if len(p.accounts) >= w.BatchSize || time.Since(p.since) >= w.BatchWait {
			w.flush(ctx, &p)
		}
	}
}

func (w *IngestKafka) handle(m kafka.Message, p *pending) {
	p.add(m)

	var row map[string]string
	if err := json.Unmarshal(m.Value, &row); err != nil {
		// poison: skipped, committed with its batch
		logger.Log.Warn("ingest: bad event json",
			zap.Int64("offset", m.Offset), zap.Error(err))
		return
	}

	a, err := ingest.NormalizeRow(row)
	if err != nil {
		metrics.IngestRowsTotal.WithLabelValues("kafka", "invalid").Inc()
		if w.Dataset != nil {
			w.Dataset.RecordInvalid(ingest.InvalidRow(int(m.Offset)+1, row, err))
		}
		return
	}
	p.accounts = append(p.accounts, a)
}

// flush writes the pending rows and then commits every pending offset. On a
// write error nothing is committed and p is kept.
func (w *IngestKafka) flush(ctx context.Context, p *pending) {
	if len(p.msgs) == 0 {
		return
	}

	if len(p.accounts) > 0 {
		if err := w.Accounts.UpsertBatch(ctx, nil, p.accounts); err != nil {
			logger.Log.Error("ingest: upsert batch, will retry",
				zap.Int("rows", len(p.accounts)), zap.Error(err))
			p.stalled = true
			return
		}
		metrics.IngestRowsTotal.WithLabelValues("kafka", "loaded").Add(float64(len(p.accounts)))

		if w.Dataset != nil {
			for _, a := range p.accounts {
				w.Dataset.Upsert(a)
			}
		}
		logger.Log.Info("ingest: flushed", zap.Int("rows", len(p.accounts)))
	}

	w.commit(ctx, p.msgs...)
	*p = pending{}
}

func (w *IngestKafka) commit(ctx context.Context, msgs ...kafka.Message) {
	if err := w.Consumer.Commit(ctx, msgs...); err != nil {
		logger.Log.Warn("ingest: commit", zap.Error(err))
	}
}
