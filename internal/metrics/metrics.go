package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	IngestRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_ingest_rows_total",
			Help: "Account rows seen by ingestion, by source and result",
		},
		[]string{"source", "result"}, // csv|mysql|clickhouse|kafka , loaded|invalid
	)

	DashboardFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_dashboard_fetch_total",
			Help: "Dashboard API fetches by resource and outcome",
		},
		[]string{"resource", "outcome"}, // summary|ingestion_report|records , ok|error
	)

	RateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "insights_http_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)
)

var registerOnce sync.Once

// MustRegister registers the collectors once; later calls are no-ops so the
// API and dashboard servers can share a process.
func MustRegister(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(
			IngestRowsTotal,
			DashboardFetchTotal,
			RateLimitedTotal,
		)
	})
}
