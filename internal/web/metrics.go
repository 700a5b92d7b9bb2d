package web

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the generation API.
type Metrics struct {
	// Generated records by outcome ("ok", "invalid_config", "error")
	Generations *prometheus.CounterVec

	// Records produced per successful batch
	BatchSize prometheus.Histogram

	// Full batch generation latency
	GenerateLatency prometheus.Histogram
}

// NewMetrics registers and returns the API metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Generations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zident_generations_total",
			Help: "Total generation requests by outcome",
		}, []string{"outcome"}),

		BatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "zident_batch_size",
			Help:    "Records produced per successful batch",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		}),

		GenerateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "zident_generate_duration_seconds",
			Help:    "Duration of full batch generation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

// ObserveBatch records one successful batch.
func (m *Metrics) ObserveBatch(size int, d time.Duration) {
	if m != nil {
		m.Generations.WithLabelValues("ok").Inc()
		m.BatchSize.Observe(float64(size))
		m.GenerateLatency.Observe(d.Seconds())
	}
}

// IncrementFailure records a failed request by outcome.
func (m *Metrics) IncrementFailure(outcome string) {
	if m != nil {
		m.Generations.WithLabelValues(outcome).Inc()
	}
}
