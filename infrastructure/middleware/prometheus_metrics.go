// Package middleware provides cross-cutting operational concerns for
// the evaluation runner, currently the Prometheus metrics collector.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-evalkit/internal/ports"
)

// Compile-time verification that PrometheusMetrics implements
// MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements ports.MetricsCollector on Prometheus.
// It exposes run latencies, model and metric failure counts, and the
// pass rate of the most recent run per suite and model, so dashboards
// can watch evaluation health over time.
type PrometheusMetrics struct {
	operationLatency *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	runGauges        *prometheus.GaugeVec
}

// NewPrometheusMetrics registers the evaluation metrics in the given
// registerer. Pass prometheus.DefaultRegisterer for the global
// registry; tests pass their own to avoid duplicate registration.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		operationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eval_operation_duration_seconds",
				Help:    "Duration of evaluation operations (model calls, metric scoring, suite runs).",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "model", "metric"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eval_operations_total",
				Help: "Count of evaluation events (adapter failures, judge retries, cases evaluated).",
			},
			[]string{"event", "model"},
		),
		runGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "eval_run_state",
				Help: "Most recent per-run values, e.g. pass rate, keyed by suite and model.",
			},
			[]string{"metric", "suite", "model"},
		),
	}
}

// RecordLatency observes an operation duration.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	pm.operationLatency.WithLabelValues(
		operation,
		labels["model"],
		labels["metric"],
	).Observe(duration.Seconds())
}

// RecordCounter increments an event counter.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	pm.operationCounter.WithLabelValues(metric, labels["model"]).Add(value)
}

// RecordGauge sets a per-run gauge value.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	pm.runGauges.WithLabelValues(metric, labels["suite"], labels["model"]).Set(value)
}
