// Package metrics exposes Prometheus collectors for the record container.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the record container collectors.
type Metrics struct {
	Mutations       *prometheus.CounterVec
	MutationErrors  *prometheus.CounterVec
	MutationLatency prometheus.Histogram
}

// New registers record collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rirekisho_record_mutations_total",
			Help: "Committed record mutations by action.",
		}, []string{"action"}),
		MutationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rirekisho_record_mutation_errors_total",
			Help: "Rejected record mutations by action.",
		}, []string{"action"}),
		MutationLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rirekisho_record_mutation_duration_seconds",
			Help:    "Time from mutation start to committed persistence.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveMutation records one mutation outcome. Nil-safe so services can run
// without metrics in tests.
func (m *Metrics) ObserveMutation(action string, err error, seconds float64) {
	if m == nil {
		return
	}
	if err != nil {
		m.MutationErrors.WithLabelValues(action).Inc()
		return
	}
	m.Mutations.WithLabelValues(action).Inc()
	m.MutationLatency.Observe(seconds)
}
