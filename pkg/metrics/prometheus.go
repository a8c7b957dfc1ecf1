// Package metrics provides Prometheus metrics for the referee assignment service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace string
	registry  prometheus.Registerer

	// Scoring metrics.
	scoresComputed prometheus.Counter
	conflictFlags  *prometheus.CounterVec

	// Suggestion run metrics.
	suggestRuns        prometheus.Counter
	suggestWindows     prometheus.Counter
	fixturesConsidered prometheus.Counter
	fixturesAssigned   prometheus.Counter
	fixturesUnfilled   prometheus.Counter

	// Store metrics.
	storeQueryLatency prometheus.Histogram

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a Manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "refassign",
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.scoresComputed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "scores_computed_total",
		Help:      "Number of fit scores computed.",
	})
	m.conflictFlags = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "conflict_flags_total",
		Help:      "Number of conflict/quality flags raised, by flag.",
	}, []string{"flag"})

	m.suggestRuns = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "suggest_runs_total",
		Help:      "Number of weekend suggestion runs started.",
	})
	m.suggestWindows = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "suggest_windows_total",
		Help:      "Number of weekend windows emitted by suggestion runs.",
	})
	m.fixturesConsidered = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "suggest_fixtures_considered_total",
		Help:      "Number of unassigned fixtures considered by suggestion runs.",
	})
	m.fixturesAssigned = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "suggest_fixtures_assigned_total",
		Help:      "Number of fixtures that received a proposed official.",
	})
	m.fixturesUnfilled = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "suggest_fixtures_unfilled_total",
		Help:      "Number of fixtures left without a qualifying candidate.",
	})

	m.storeQueryLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "store_query_latency_ms",
		Help:      "Latency of backing store queries in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	}, []string{"endpoint", "method", "status"})

	return m
}

var defaultManager *Manager

// Default returns the process-wide Manager, creating it on first use.
func Default() *Manager {
	if defaultManager == nil {
		defaultManager = NewManager()
	}
	return defaultManager
}

// Package-level helpers operating on the default Manager.

func RecordScoreComputed()       { Default().scoresComputed.Inc() }
func RecordConflictFlag(f string) {
	Default().conflictFlags.WithLabelValues(f).Inc()
}

func RecordSuggestRun()    { Default().suggestRuns.Inc() }
func RecordSuggestWindow() { Default().suggestWindows.Inc() }
func RecordFixturesConsidered(n int) {
	Default().fixturesConsidered.Add(float64(n))
}
func RecordFixturesAssigned(n int) {
	Default().fixturesAssigned.Add(float64(n))
}
func RecordFixturesUnfilled(n int) {
	Default().fixturesUnfilled.Add(float64(n))
}

func RecordStoreQueryLatency(ms float64) { Default().storeQueryLatency.Observe(ms) }

func RecordHTTPRequest(endpoint, method, status string) {
	Default().httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	Default().httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
