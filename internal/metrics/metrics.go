package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the statistics core
type Metrics struct {
	// Sample cache
	CacheRequests    *prometheus.CounterVec
	SamplesGenerated *prometheus.CounterVec

	// Hypothesis analysis
	Analyses         *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram

	// Bayes calculator
	Posteriors *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
// A nil reg leaves them unregistered, which is what tests usually want.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statdemo_sample_cache_requests_total",
				Help: "Sample cache lookups by result (hit or miss)",
			},
			[]string{"result"},
		),
		SamplesGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statdemo_samples_generated_total",
				Help: "Scenario samples generated from the seeded PRNG",
			},
			[]string{"scenario"},
		),
		Analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statdemo_analyses_total",
				Help: "Hypothesis analyses by recommended test",
			},
			[]string{"recommended"},
		),
		AnalysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "statdemo_analysis_duration_seconds",
				Help:    "Time spent computing a hypothesis report",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		Posteriors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statdemo_posteriors_total",
				Help: "Posterior computations by outcome (ok or invalid)",
			},
			[]string{"outcome"},
		),
	}
}

// NewNop returns unregistered collectors.
func NewNop() *Metrics {
	return New(nil)
}

func (m *Metrics) CacheHit() { m.CacheRequests.WithLabelValues("hit").Inc() }
func (m *Metrics) CacheMiss() { m.CacheRequests.WithLabelValues("miss").Inc() }

func (m *Metrics) SampleGenerated(scenario string) {
	m.SamplesGenerated.WithLabelValues(scenario).Inc()
}

// ObserveAnalysis records one finished analysis.
func (m *Metrics) ObserveAnalysis(recommended string, elapsed time.Duration) {
	m.Analyses.WithLabelValues(recommended).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) PosteriorComputed(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "invalid"
	}
	m.Posteriors.WithLabelValues(outcome).Inc()
}
