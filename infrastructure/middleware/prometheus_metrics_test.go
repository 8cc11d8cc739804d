package middleware

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_RecordCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	pm.RecordCounter("adapter_failure", 1, map[string]string{"model": "gpt-4o-mini"})
	pm.RecordCounter("adapter_failure", 2, map[string]string{"model": "gpt-4o-mini"})

	counter := pm.operationCounter.WithLabelValues("adapter_failure", "gpt-4o-mini")
	assert.InDelta(t, 3.0, testutil.ToFloat64(counter), 1e-9)
}

func TestPrometheusMetrics_RecordGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	labels := map[string]string{"suite": "geography", "model": "gpt-4o-mini"}
	pm.RecordGauge("pass_rate", 0.25, labels)
	pm.RecordGauge("pass_rate", 0.75, labels)

	gauge := pm.runGauges.WithLabelValues("pass_rate", "geography", "gpt-4o-mini")
	assert.InDelta(t, 0.75, testutil.ToFloat64(gauge),
		1e-9, "gauges keep the most recent value, not a sum")
}

func TestPrometheusMetrics_RecordLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	pm.RecordLatency("model_call", 150*time.Millisecond,
		map[string]string{"model": "gpt-4o-mini", "metric": ""})
	pm.RecordLatency("metric_score", 5*time.Millisecond,
		map[string]string{"model": "gpt-4o-mini", "metric": "exact_match"})

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() == "eval_operation_duration_seconds" {
			found = true
			assert.Len(t, mf.GetMetric(), 2, "one series per label combination")
		}
	}
	assert.True(t, found, "histogram must be registered")
}

func TestPrometheusMetrics_MissingLabelsDefaultToEmpty(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	// Collectors tolerate nil label maps so callers never need to
	// build empty ones.
	assert.NotPanics(t, func() {
		pm.RecordCounter("case_evaluated", 1, nil)
		pm.RecordGauge("pass_rate", 1, nil)
		pm.RecordLatency("suite_run", time.Second, nil)
	})
}
