// Package metrics exposes Prometheus collectors for network edits and
// estimate runs on a private registry.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Registry holds all metrics for the application
type Registry struct {
	registry *prometheus.Registry

	// Network metrics
	GraphEditsTotal *prometheus.CounterVec
	GraphNodes      prometheus.Gauge
	GraphEdges      prometheus.Gauge

	// Run metrics
	RunsTotal     *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	SampleSize    prometheus.Gauge
	WarningsTotal *prometheus.CounterVec
}

// NewRegistry creates a registry with every collector registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initGraphMetrics()
	r.initRunMetrics()

	return r
}

func (r *Registry) initGraphMetrics() {
	r.GraphEditsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pavecost_graph_edits_total",
			Help: "Total number of network edits by kind and status",
		},
		[]string{"kind", "status"},
	)

	r.GraphNodes = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "pavecost_graph_nodes",
		Help: "Number of nodes in the dependency network",
	})

	r.GraphEdges = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "pavecost_graph_edges",
		Help: "Number of edges in the dependency network",
	})
}

func (r *Registry) initRunMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pavecost_runs_total",
			Help: "Total number of estimate runs by outcome",
		},
		[]string{"outcome"},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pavecost_stage_duration_seconds",
			Help:    "Duration of estimate stages in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0},
		},
		[]string{"stage"},
	)

	r.SampleSize = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "pavecost_sample_size",
		Help: "Number of Monte Carlo draws of the last run",
	})

	r.WarningsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pavecost_warnings_total",
			Help: "Inputs ignored with a fallback, by source",
		},
		[]string{"source"},
	)
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordGraphEdit records one attempted network edit.
func (r *Registry) RecordGraphEdit(kind string, err error) {
	status := "ok"
	if err != nil {
		status = "rejected"
	}
	r.GraphEditsTotal.WithLabelValues(kind, status).Inc()
}

// SetGraphSize updates the network size gauges.
func (r *Registry) SetGraphSize(nodes, edges int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// RecordStage records the duration of one run stage.
func (r *Registry) RecordStage(stage string, d time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordRun records a finished run.
func (r *Registry) RecordRun(outcome string, samples int) {
	r.RunsTotal.WithLabelValues(outcome).Inc()
	if samples > 0 {
		r.SampleSize.Set(float64(samples))
	}
}

// RecordWarnings adds n fallback warnings for source.
func (r *Registry) RecordWarnings(source string, n int) {
	if n > 0 {
		r.WarningsTotal.WithLabelValues(source).Add(float64(n))
	}
}

// WriteText writes every metric in the Prometheus text format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}

	return nil
}
