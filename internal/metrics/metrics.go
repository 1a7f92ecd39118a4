// Package metrics provides Prometheus metrics for the sync client.
//
// All recording methods are safe to call on a nil *Metrics, so components
// can be built without metrics in tests and embedded use.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Search lookup sources.
const (
	SourceCache  = "cache"
	SourceRemote = "remote"
)

// Metrics groups the collectors registered by the client.
type Metrics struct {
	remoteRequests  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	tokenRefreshes  *prometheus.CounterVec
	recordsInserted *prometheus.CounterVec
	searchLookups   *prometheus.CounterVec
	pagesExhausted  *prometheus.CounterVec
}

// New registers the collectors with reg. Pass prometheus.NewRegistry() in
// tests to avoid clashing with the global registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		remoteRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petsync_remote_requests_total",
				Help: "Total number of remote API requests",
			},
			[]string{"endpoint", "outcome"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "petsync_remote_request_duration_seconds",
				Help:    "Remote API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		tokenRefreshes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petsync_token_refreshes_total",
				Help: "Total number of access token refresh exchanges",
			},
			[]string{"outcome"},
		),
		recordsInserted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petsync_records_inserted_total",
				Help: "Rows newly written to the local cache",
			},
			[]string{"entity"},
		),
		searchLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petsync_search_lookups_total",
				Help: "Search lookups by source",
			},
			[]string{"source"},
		),
		pagesExhausted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petsync_pages_exhausted_total",
				Help: "Remote pages that returned no records",
			},
			[]string{"stream"},
		),
	}
}

// RecordRemoteRequest counts a remote call and observes its duration.
func (m *Metrics) RecordRemoteRequest(endpoint, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.remoteRequests.WithLabelValues(endpoint, outcome).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(seconds)
}

func (m *Metrics) RecordTokenRefresh(outcome string) {
	if m == nil {
		return
	}
	m.tokenRefreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordInserted(entity string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.recordsInserted.WithLabelValues(entity).Add(float64(n))
}

func (m *Metrics) RecordSearchLookup(source string) {
	if m == nil {
		return
	}
	m.searchLookups.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordExhausted(stream string) {
	if m == nil {
		return
	}
	m.pagesExhausted.WithLabelValues(stream).Inc()
}
