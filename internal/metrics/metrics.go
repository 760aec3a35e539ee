// Package metrics exposes Prometheus collectors for the two sides of the
// system: catalog sync on the archive side and the HTTP API on catalogd.
// Disabled metrics return no-op recorders so callers never branch.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// SyncRecorder collects catalog-sync and attempt-push observations.
type SyncRecorder interface {
	IncSyncRuns(outcome string)
	ObserveSyncDuration(d time.Duration)
	AddEntriesUpserted(n int)
	AddOrphansRemoved(n int)
	IncAttemptPushes(outcome string)
}

type syncMetrics struct {
	syncRuns        *prometheus.CounterVec
	syncDuration    prometheus.Histogram
	entriesUpserted prometheus.Counter
	orphansRemoved  prometheus.Counter
	attemptPushes   *prometheus.CounterVec
}

// NewSyncRecorder registers the archive-side collectors on the default
// registerer. With enabled=false it returns a no-op recorder.
func NewSyncRecorder(enabled bool) SyncRecorder {
	if !enabled {
		return &noopSync{}
	}

	return &syncMetrics{
		syncRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "archive_sync_runs_total",
			Help: "Total number of catalog sync runs by outcome",
		}, []string{"outcome"}),

		syncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "archive_sync_duration_seconds",
			Help:    "Catalog sync duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		entriesUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "archive_sync_entries_upserted_total",
			Help: "Total number of catalog entries upserted by sync",
		}),

		orphansRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "archive_sync_orphans_removed_total",
			Help: "Total number of orphaned catalog entries removed by sync",
		}),

		attemptPushes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "archive_attempt_pushes_total",
			Help: "Total number of attempt upload runs by outcome",
		}, []string{"outcome"}),
	}
}

func (m *syncMetrics) IncSyncRuns(outcome string) { m.syncRuns.WithLabelValues(outcome).Inc() }
func (m *syncMetrics) ObserveSyncDuration(d time.Duration) {
	m.syncDuration.Observe(d.Seconds())
}
func (m *syncMetrics) AddEntriesUpserted(n int) { m.entriesUpserted.Add(float64(n)) }
func (m *syncMetrics) AddOrphansRemoved(n int)  { m.orphansRemoved.Add(float64(n)) }
func (m *syncMetrics) IncAttemptPushes(outcome string) {
	m.attemptPushes.WithLabelValues(outcome).Inc()
}

type noopSync struct{}

func (n *noopSync) IncSyncRuns(_ string)              {}
func (n *noopSync) ObserveSyncDuration(_ time.Duration) {}
func (n *noopSync) AddEntriesUpserted(_ int)          {}
func (n *noopSync) AddOrphansRemoved(_ int)           {}
func (n *noopSync) IncAttemptPushes(_ string)         {}

// NoopSync returns a recorder that collects nothing. Intended for tests.
func NoopSync() SyncRecorder { return &noopSync{} }

// HTTPRecorder collects catalogd request and snapshot-cache observations.
type HTTPRecorder interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, d time.Duration)
	IncCacheHits()
	IncCacheMisses()
}

type httpMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewHTTPRecorder registers the catalogd collectors on the default
// registerer. With enabled=false it returns a no-op recorder.
func NewHTTPRecorder(enabled bool) HTTPRecorder {
	if !enabled {
		return &noopHTTP{}
	}

	return &httpMetrics{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catalogd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalogd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalogd_snapshot_cache_hits_total",
			Help: "Total number of catalog snapshot cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalogd_snapshot_cache_misses_total",
			Help: "Total number of catalog snapshot cache misses",
		}),
	}
}

func (m *httpMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}
func (m *httpMetrics) ObserveRequestDuration(endpoint string, d time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}
func (m *httpMetrics) IncCacheHits()   { m.cacheHits.Inc() }
func (m *httpMetrics) IncCacheMisses() { m.cacheMisses.Inc() }

type noopHTTP struct{}

func (n *noopHTTP) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopHTTP) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopHTTP) IncCacheHits()                                    {}
func (n *noopHTTP) IncCacheMisses()                                  {}

// NoopHTTP returns a recorder that collects nothing. Intended for tests.
func NoopHTTP() HTTPRecorder { return &noopHTTP{} }

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
