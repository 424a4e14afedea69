// Package observability defines the Prometheus metrics exported on /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "water_intel"

// Metrics holds the Prometheus counters and histograms for scoring and renders.
type Metrics struct {
	// Scoring metrics.
	ScoreRequests *prometheus.CounterVec   // labels: provider, outcome={success,timeout,transport,malformed,...}
	ScoreCache    *prometheus.CounterVec   // labels: result={hit,miss}
	ScoreDuration *prometheus.HistogramVec // labels: provider

	// Dashboard metrics.
	Renders         prometheus.Counter
	DegradedRenders prometheus.Counter
	RenderDuration  prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ScoreRequests,
		m.ScoreCache,
		m.ScoreDuration,
		m.Renders,
		m.DegradedRenders,
		m.RenderDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they need without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ScoreRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_requests_total",
			Help:      "District scoring calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ScoreCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_cache_total",
			Help:      "Score cache lookups by result.",
		}, []string{"result"}),
		ScoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score_duration_seconds",
			Help:      "Provider round-trip time for one district score.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"provider"}),
		Renders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_renders_total",
			Help:      "Dashboard render passes.",
		}),
		DegradedRenders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_degraded_renders_total",
			Help:      "Renders served with empty tables after a store failure.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dashboard_render_duration_seconds",
			Help:      "Duration of one load-score-rank render pass.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}
