package dashboard

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/jmehdipour/insights/internal/logger"
	"github.com/jmehdipour/insights/internal/metrics"
	"github.com/jmehdipour/insights/internal/model"
)

// User-facing messages, one per fetch category.
const (
	ErrIngestionReport = "Failed to load ingestion report."
	ErrRecords         = "Failed to load records."
	ErrSummary         = "Failed to load summary."
)

// Fetcher is the accounts API as the dashboard sees it.
type Fetcher interface {
	GetSummary(ctx context.Context) (model.Summary, error)
	GetIngestionReport(ctx context.Context) (model.IngestionReport, error)
	GetRecords(ctx context.Context, limit int) (model.RecordsPage, error)
}

// State is what one page load fetched. A nil pointer means that resource
// failed (or was never loaded); Errors holds the matching messages in
// ingestion report, records, summary order.
type State struct {
	Summary *model.Summary
	Report  *model.IngestionReport
	Records *model.RecordsPage
	Errors  []string
}

// Message is the single error shown on the page: the last failure, or "".
func (s State) Message() string {
	if len(s.Errors) == 0 {
		return ""
	}
	return s.Errors[len(s.Errors)-1]
}

// Items returns the fetched records, empty when the records fetch failed.
func (s State) Items() []model.Record {
	if s.Records == nil {
		return nil
	}
	return s.Records.Items
}

// Load fetches the three resources concurrently. A failure in one fetch never
// cancels or discards the others.
func Load(ctx context.Context, f Fetcher, limit int) State {
	var (
		st       State
		mu       sync.Mutex
		failures [3]string
	)

	fail := func(slot int, resource, msg string, err error) {
		metrics.DashboardFetchTotal.WithLabelValues(resource, "error").Inc()
		logger.Log.Warn("dashboard fetch failed", zap.String("resource", resource), zap.Error(err))
		mu.Lock()
		failures[slot] = msg
		mu.Unlock()
	}
	ok := func(resource string) {
		metrics.DashboardFetchTotal.WithLabelValues(resource, "ok").Inc()
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		rep, err := f.GetIngestionReport(ctx)
		if err != nil {
			fail(0, "ingestion_report", ErrIngestionReport, err)
			return
		}
		ok("ingestion_report")
		mu.Lock()
		st.Report = &rep
		mu.Unlock()
	})
	wg.Go(func() {
		page, err := f.GetRecords(ctx, limit)
		if err != nil {
			fail(1, "records", ErrRecords, err)
			return
		}
		ok("records")
		mu.Lock()
		st.Records = &page
		mu.Unlock()
	})
	wg.Go(func() {
		sum, err := f.GetSummary(ctx)
		if err != nil {
			fail(2, "summary", ErrSummary, err)
			return
		}
		ok("summary")
		mu.Lock()
		st.Summary = &sum
		mu.Unlock()
	})
	wg.Wait()

	for _, msg := range failures {
		if msg != "" {
			st.Errors = append(st.Errors, msg)
		}
	}
	return st
}
