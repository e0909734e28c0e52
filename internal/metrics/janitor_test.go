package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) *io_prometheus_client.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func metricWithLabels(family *io_prometheus_client.MetricFamily, labels map[string]string) *io_prometheus_client.Metric {
	for _, m := range family.GetMetric() {
		if len(m.GetLabel()) != len(labels) {
			continue
		}
		match := true
		for _, lp := range m.GetLabel() {
			if labels[lp.GetName()] != lp.GetValue() {
				match = false
			}
		}
		if match {
			return m
		}
	}
	return nil
}

func TestJanitorMetrics_RecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJanitorMetricsWithRegistry(reg)

	m.RecordRun(1.5, true)
	m.RecordRun(2.0, true)
	m.RecordRun(0.2, false)

	runs := gather(t, reg, "janitor_runs_total")
	assert.Equal(t, 2.0, metricWithLabels(runs, map[string]string{"status": StatusSuccess}).GetCounter().GetValue())
	assert.Equal(t, 1.0, metricWithLabels(runs, map[string]string{"status": StatusFailure}).GetCounter().GetValue())

	durations := gather(t, reg, "janitor_run_duration_seconds")
	success := metricWithLabels(durations, map[string]string{"status": StatusSuccess})
	require.NotNil(t, success)
	assert.Equal(t, uint64(2), success.GetHistogram().GetSampleCount())
	assert.InDelta(t, 3.5, success.GetHistogram().GetSampleSum(), 1e-9)
}

func TestJanitorMetrics_Progress(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJanitorMetricsWithRegistry(reg)

	m.RecordCycleStarted()
	m.RecordQueueDepth(7)
	m.RecordVersionDeleted()
	m.RecordVersionDeleted()
	m.RecordFunctionCleaned(3)
	m.RecordQueueDepth(6)

	assert.Equal(t, 1.0, gather(t, reg, "janitor_cycles_total").GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 6.0, gather(t, reg, "janitor_queue_depth").GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 2.0, gather(t, reg, "janitor_versions_deleted_total").GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 1.0, gather(t, reg, "janitor_functions_cleaned_total").GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 3.0, gather(t, reg, "janitor_versions_kept_total").GetMetric()[0].GetCounter().GetValue())
}

func TestPlatformMetrics_RecordCall_Operations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPlatformMetricsWithRegistry(reg)

	m.RecordCall("DeleteVersion", 0.05, true)
	m.RecordCall("DeleteVersion", 0.07, false)
	m.RecordCall("ListFunctions", 0.2, true)

	calls := gather(t, reg, "janitor_platform_calls_total")
	assert.Equal(t, 1.0, metricWithLabels(calls, map[string]string{"operation": "DeleteVersion", "status": StatusSuccess}).GetCounter().GetValue())
	assert.Equal(t, 1.0, metricWithLabels(calls, map[string]string{"operation": "DeleteVersion", "status": StatusFailure}).GetCounter().GetValue())
	assert.Equal(t, 1.0, metricWithLabels(calls, map[string]string{"operation": "ListFunctions", "status": StatusSuccess}).GetCounter().GetValue())

	latency := gather(t, reg, "janitor_platform_call_latency_seconds")
	assert.Len(t, latency.GetMetric(), 3)
}

func TestNewJanitorMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewJanitorMetricsWithRegistry(reg)
	assert.Panics(t, func() { NewJanitorMetricsWithRegistry(reg) })
}
