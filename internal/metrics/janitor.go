package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// DefaultRunLatencyBuckets are latency buckets for a whole janitor run.
// A run spans many API calls and is bounded by the invocation timeout.
var DefaultRunLatencyBuckets = []float64{
	0.1,   // 100ms
	0.5,   // 500ms
	1.0,   // 1s
	5.0,   // 5s
	15.0,  // 15s
	30.0,  // 30s
	60.0,  // 1m
	120.0, // 2m
	300.0, // 5m
	600.0, // 10m
	900.0, // 15m
}

// JanitorMetrics holds metrics for cleanup runs.
type JanitorMetrics struct {
	// RunsTotal counts Run invocations by status.
	RunsTotal *prometheus.CounterVec

	// RunDuration tracks the wall-clock time of each Run by status.
	RunDuration *prometheus.HistogramVec

	// CyclesTotal counts how many times the work queue was refilled from a
	// fresh function listing.
	CyclesTotal prometheus.Counter

	// QueueDepth is the number of functions still pending in the current cycle.
	QueueDepth prometheus.Gauge

	// FunctionsCleaned counts functions whose deletions all succeeded.
	FunctionsCleaned prometheus.Counter

	// VersionsDeleted counts successfully deleted versions.
	VersionsDeleted prometheus.Counter

	// VersionsKept counts versions protected by alias or recency, per
	// function cleaned.
	VersionsKept prometheus.Counter
}

// NewJanitorMetrics creates and registers janitor metrics with the default registry.
func NewJanitorMetrics() *JanitorMetrics {
	return NewJanitorMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewJanitorMetricsWithRegistry creates janitor metrics registered with a custom registry.
// Useful for testing to avoid conflicts with the default registry.
func NewJanitorMetricsWithRegistry(reg prometheus.Registerer) *JanitorMetrics {
	factory := promauto.With(reg)
	return &JanitorMetrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "janitor",
				Name:      "runs_total",
				Help:      "Total number of janitor runs, broken down by status.",
			},
			[]string{"status"},
		),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "janitor",
				Name:      "run_duration_seconds",
				Help:      "Janitor run duration in seconds, broken down by status.",
				Buckets:   DefaultRunLatencyBuckets,
			},
			[]string{"status"},
		),
		CyclesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "janitor",
				Name:      "cycles_total",
				Help:      "Number of cleanup cycles started (work queue refilled from a function listing).",
			},
		),
		QueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "janitor",
				Name:      "queue_depth",
				Help:      "Number of functions still pending in the current cleanup cycle.",
			},
		),
		FunctionsCleaned: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "janitor",
				Name:      "functions_cleaned_total",
				Help:      "Number of functions fully cleaned.",
			},
		),
		VersionsDeleted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "janitor",
				Name:      "versions_deleted_total",
				Help:      "Number of function versions deleted.",
			},
		),
		VersionsKept: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "janitor",
				Name:      "versions_kept_total",
				Help:      "Number of function versions kept by alias or recency when a function was cleaned.",
			},
		),
	}
}

// RecordRun records a finished Run.
func (m *JanitorMetrics) RecordRun(durationSeconds float64, success bool) {
	status := StatusSuccess
	if !success {
		status = StatusFailure
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.WithLabelValues(status).Observe(durationSeconds)
}

// RecordCycleStarted records a queue refill.
func (m *JanitorMetrics) RecordCycleStarted() {
	m.CyclesTotal.Inc()
}

// RecordQueueDepth updates the pending function gauge.
func (m *JanitorMetrics) RecordQueueDepth(depth int) {
	m.QueueDepth.Set(float64(depth))
}

// RecordVersionDeleted counts one deleted version.
func (m *JanitorMetrics) RecordVersionDeleted() {
	m.VersionsDeleted.Inc()
}

// RecordFunctionCleaned counts a fully cleaned function and the versions it kept.
func (m *JanitorMetrics) RecordFunctionCleaned(kept int) {
	m.FunctionsCleaned.Inc()
	m.VersionsKept.Add(float64(kept))
}
