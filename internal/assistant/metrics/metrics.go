// Package metrics exposes Prometheus collectors for the assistant boundary.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the assistant collectors.
type Metrics struct {
	Requests  *prometheus.CounterVec
	Failures  *prometheus.CounterVec
	Latency   *prometheus.HistogramVec
	CacheHits prometheus.Counter
}

// New registers assistant collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rirekisho_assistant_requests_total",
			Help: "Assistant operations by name.",
		}, []string{"operation"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rirekisho_assistant_failures_total",
			Help: "Assistant failures by operation and category.",
		}, []string{"operation", "category"}),
		Latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rirekisho_assistant_duration_seconds",
			Help:    "Assistant operation latency.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "rirekisho_assistant_cache_hits_total",
			Help: "Gap analyses served from cache.",
		}),
	}
}

// Observe records one operation outcome. Nil-safe for tests.
func (m *Metrics) Observe(operation, failureCategory string, seconds float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(operation).Inc()
	if failureCategory != "" {
		m.Failures.WithLabelValues(operation, failureCategory).Inc()
		return
	}
	m.Latency.WithLabelValues(operation).Observe(seconds)
}

// ObserveCacheHit counts a cache-served analysis. Nil-safe.
func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}
