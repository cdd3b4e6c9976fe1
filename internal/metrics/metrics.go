// Package metrics exposes pipeline and API counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider call outcomes
const (
	OutcomeResults = "results"
	OutcomeEmpty   = "empty"
)

// Metrics holds the factcheck collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	VerifyRequests   *prometheus.CounterVec
	ProviderCalls    *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	PipelineDuration prometheus.Histogram
	Confidence       prometheus.Histogram
}

// New registers the collectors on registerer
func New(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		VerifyRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "factcheck",
				Name:      "verify_requests_total",
				Help:      "Verification requests by cache outcome",
			},
			[]string{"cache"},
		),

		ProviderCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "factcheck",
				Name:      "provider_calls_total",
				Help:      "Source provider calls by outcome",
			},
			[]string{"provider", "outcome"},
		),

		ProviderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "factcheck",
				Name:      "provider_duration_seconds",
				Help:      "Source provider call duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 10},
			},
			[]string{"provider"},
		),

		PipelineDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "factcheck",
				Name:      "pipeline_duration_seconds",
				Help:      "End-to-end fact-check duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20},
			},
		),

		Confidence: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "factcheck",
				Name:      "overall_confidence",
				Help:      "Overall confidence of completed fact-checks",
				Buckets:   prometheus.LinearBuckets(0.2, 0.1, 8),
			},
		),
	}
}

// ObserveProvider records one provider call
func (m *Metrics) ObserveProvider(provider string, items int, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeEmpty
	if items > 0 {
		outcome = OutcomeResults
	}
	m.ProviderCalls.WithLabelValues(provider, outcome).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObservePipeline records one completed fact-check
func (m *Metrics) ObservePipeline(confidence float64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PipelineDuration.Observe(elapsed.Seconds())
	m.Confidence.Observe(confidence)
}

// ObserveVerify records a verification request as a cache hit or miss
func (m *Metrics) ObserveVerify(cacheHit bool) {
	if m == nil {
		return
	}
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	m.VerifyRequests.WithLabelValues(label).Inc()
}
