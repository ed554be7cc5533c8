// Package source loads the account dataset at startup from the configured
// backend (CSV file, MySQL or ClickHouse) and reports what was rejected.
package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jmehdipour/insights/internal/ingest"
	"github.com/jmehdipour/insights/internal/logger"
	"github.com/jmehdipour/insights/internal/metrics"
	"github.com/jmehdipour/insights/internal/model"
	"github.com/jmehdipour/insights/internal/service/accounts"
)

const (
	KindCSV        = "csv"
	KindMySQL      = "mysql"
	KindClickHouse = "clickhouse"
)

type Loader interface {
	Name() string
	Load(ctx context.Context) (ingest.Result, error)
}

// CSV loads accounts from a file on disk.
type CSV struct {
	Path string
}

func (c CSV) Name() string { return KindCSV }

func (c CSV) Load(_ context.Context) (ingest.Result, error) {
	return ingest.LoadFile(c.Path)
}

// Lister is satisfied by the MySQL and ClickHouse account repositories.
type Lister interface {
	ListAll(ctx context.Context) ([]model.Account, error)
}

// Table loads typed rows from a database and re-validates them with the same
// rules as the CSV path.
type Table struct {
	Kind string
	Repo Lister
}

func (t Table) Name() string { return t.Kind }

func (t Table) Load(ctx context.Context) (ingest.Result, error) {
	rows, err := t.Repo.ListAll(ctx)
	if err != nil {
		return ingest.Result{}, fmt.Errorf("%s list accounts: %w", t.Kind, err)
	}

	var res ingest.Result
	for i, a := range rows {
		if err := ingest.Validate(a); err != nil {
			res.Invalid = append(res.Invalid, ingest.InvalidRow(i+1, rowOf(a), err))
			continue
		}
		res.Accounts = append(res.Accounts, a)
	}
	return res, nil
}

func rowOf(a model.Account) map[string]string {
	row := make(map[string]string, 12)
	for k, v := range a.Record() {
		if v == nil {
			row[k] = ""
			continue
		}
		row[k] = fmt.Sprint(v)
	}
	return row
}

// Apply loads from l and replaces the dataset held by svc.
func Apply(ctx context.Context, svc *accounts.Service, l Loader) (ingest.Result, error) {
	res, err := l.Load(ctx)
	if err != nil {
		return res, err
	}
	svc.Replace(res.Accounts, res.Invalid)

	metrics.IngestRowsTotal.WithLabelValues(l.Name(), "loaded").Add(float64(len(res.Accounts)))
	metrics.IngestRowsTotal.WithLabelValues(l.Name(), "invalid").Add(float64(len(res.Invalid)))
	logger.Log.Info("accounts loaded",
		zap.String("source", l.Name()),
		zap.Int("loaded", len(res.Accounts)),
		zap.Int("invalid", len(res.Invalid)),
	)
	return res, nil
}
