// Package metrics exposes Prometheus counters for the aggregation engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for stream aggregation sessions.
// All methods are safe on a nil receiver so callers can treat metrics as
// optional.
type Metrics struct {
	registry             *prometheus.Registry
	sessionsTotal        prometheus.Counter
	sessionsCompleted    prometheus.Counter
	providerResultsTotal *prometheus.CounterVec
	providerFetchSeconds prometheus.Histogram
	streamsMergedTotal   prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	sessionsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streams_sessions_total",
		Help: "Total number of aggregation sessions started",
	})
	sessionsCompleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streams_sessions_completed_total",
		Help: "Total number of aggregation sessions that reached the complete event",
	})
	providerResultsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streams_provider_results_total",
		Help: "Provider fetches by outcome",
	}, []string{"status"})
	providerFetchSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "streams_provider_fetch_seconds",
		Help:    "Wall-clock duration of provider stream fetches",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})
	streamsMergedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streams_merged_total",
		Help: "Total number of raw streams received from providers",
	})

	registry.MustRegister(
		sessionsTotal,
		sessionsCompleted,
		providerResultsTotal,
		providerFetchSeconds,
		streamsMergedTotal,
	)

	return &Metrics{
		registry:             registry,
		sessionsTotal:        sessionsTotal,
		sessionsCompleted:    sessionsCompleted,
		providerResultsTotal: providerResultsTotal,
		providerFetchSeconds: providerFetchSeconds,
		streamsMergedTotal:   streamsMergedTotal,
	}
}

// IncSessions counts one started aggregation session.
func (m *Metrics) IncSessions() {
	if m == nil {
		return
	}
	m.sessionsTotal.Inc()
}

// IncSessionsCompleted counts one session that reached completion.
func (m *Metrics) IncSessionsCompleted() {
	if m == nil {
		return
	}
	m.sessionsCompleted.Inc()
}

// ObserveProviderFetch records one finished provider fetch.
func (m *Metrics) ObserveProviderFetch(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.providerResultsTotal.WithLabelValues(status).Inc()
	m.providerFetchSeconds.Observe(elapsed.Seconds())
}

// AddStreamsMerged counts raw streams delivered by providers.
func (m *Metrics) AddStreamsMerged(n int) {
	if m == nil {
		return
	}
	m.streamsMergedTotal.Add(float64(n))
}

// Handler serves the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
