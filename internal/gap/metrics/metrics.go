package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for completeness evaluation.
type Metrics struct {
	// Reports produced, labelled by completeness and tier
	Reports *prometheus.CounterVec

	// Gaps emitted, labelled by importance
	Gaps *prometheus.CounterVec

	// Evaluation latency
	EvaluateLatency prometheus.Histogram
}

// New registers gap-evaluation collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Reports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rirekisho_gap_reports_total",
			Help: "Total completeness reports by completeness and tier",
		}, []string{"complete", "tier"}),

		Gaps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rirekisho_gaps_total",
			Help: "Total gaps emitted by importance",
		}, []string{"importance"}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rirekisho_gap_evaluate_duration_seconds",
			Help:    "Duration of local completeness evaluation",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		}),
	}
}

// ObserveReport records one evaluation outcome.
func (m *Metrics) ObserveReport(complete bool, tier string, gapImportances []string, d time.Duration) {
	if m == nil {
		return
	}
	label := "false"
	if complete {
		label = "true"
	}
	m.Reports.WithLabelValues(label, tier).Inc()
	for _, imp := range gapImportances {
		m.Gaps.WithLabelValues(imp).Inc()
	}
	m.EvaluateLatency.Observe(d.Seconds())
}
