// Package metrics exposes ranking counters and latencies to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "locus"

// Metrics groups the collectors the ranking service reports to.
type Metrics struct {
	registry *prometheus.Registry

	Rankings    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Fallbacks   *prometheus.CounterVec
	Projections prometheus.Counter
	Consistency prometheus.Histogram
	Candidates  prometheus.Gauge
}

// New registers every collector on a fresh registry, plus the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Rankings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rankings_total",
			Help:      "Ranking runs by preference mode and outcome.",
		}, []string{"mode", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_duration_seconds",
			Help:      "Time spent per ranking stage.",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"stage"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weighting_fallbacks_total",
			Help:      "Runs that fell back to equal weights, by failing pipeline stage.",
		}, []string{"stage"}),
		Projections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consistency_projections_total",
			Help:      "Comparison matrices projected onto a consistent matrix.",
		}),
		Consistency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "consistency_ratio",
			Help:      "Consistency Ratio of submitted preferences before projection.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.2, 0.5, 1, 2},
		}),
		Candidates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "candidates_ranked",
			Help:      "Candidates in the last ranked set.",
		}),
	}
	reg.MustRegister(
		m.Rankings, m.Duration, m.Fallbacks, m.Projections, m.Consistency, m.Candidates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
