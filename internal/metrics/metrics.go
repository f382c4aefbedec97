// Package metrics exposes load and query instrumentation for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one process. A nil *Metrics records nothing.
type Metrics struct {
	Registry      *prometheus.Registry
	loads         *prometheus.CounterVec
	rowsLoaded    *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	stagingFreed  *prometheus.CounterVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trialdb_loads_total",
			Help: "Number of store rebuilds by outcome.",
		}, []string{"status"}),
		rowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trialdb_rows_loaded_total",
			Help: "Rows inserted by successful loads, per table.",
		}, []string{"table"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trialdb_query_duration_seconds",
			Help:    "Duration of analytical queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
		stagingFreed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trialdb_staging_swept_total",
			Help: "Abandoned staging files removed by housekeeping, by unit (files or bytes).",
		}, []string{"unit"}),
	}
	m.Registry.MustRegister(m.loads, m.rowsLoaded, m.queryDuration, m.stagingFreed)
	return m
}

// LoadFinished counts a load attempt; status is "success" or "failure".
func (m *Metrics) LoadFinished(status string) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(status).Inc()
}

// RowsLoaded adds n inserted rows for table.
func (m *Metrics) RowsLoaded(table string, n int64) {
	if m == nil {
		return
	}
	m.rowsLoaded.WithLabelValues(table).Add(float64(n))
}

// ObserveQuery records the time elapsed since start for the named query.
func (m *Metrics) ObserveQuery(query string, start time.Time) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

// StagingSwept counts staging files removed by housekeeping and the bytes they held.
func (m *Metrics) StagingSwept(files int, bytes int64) {
	if m == nil {
		return
	}
	m.stagingFreed.WithLabelValues("files").Add(float64(files))
	m.stagingFreed.WithLabelValues("bytes").Add(float64(bytes))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
