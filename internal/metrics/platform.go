package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultPlatformLatencyBuckets are latency buckets for platform API calls.
// Lambda control-plane calls typically range from tens of ms to a few seconds.
var DefaultPlatformLatencyBuckets = []float64{
	0.005, // 5ms
	0.01,  // 10ms
	0.025, // 25ms
	0.05,  // 50ms
	0.1,   // 100ms
	0.25,  // 250ms
	0.5,   // 500ms
	1.0,   // 1s
	2.5,   // 2.5s
	5.0,   // 5s
	10.0,  // 10s
	30.0,  // 30s
}

// PlatformMetrics holds metrics for platform API calls.
type PlatformMetrics struct {
	// LatencyHistogram tracks call latencies by operation and status.
	// Labels: operation (ListFunctions, ListVersions, ListAliasedVersions, DeleteVersion),
	// status (success, failure)
	LatencyHistogram *prometheus.HistogramVec

	// CallsTotal counts calls by operation and status.
	CallsTotal *prometheus.CounterVec
}

// NewPlatformMetrics creates and registers platform metrics with the default registry.
func NewPlatformMetrics() *PlatformMetrics {
	return NewPlatformMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewPlatformMetricsWithRegistry creates platform metrics registered with a custom registry.
func NewPlatformMetricsWithRegistry(reg prometheus.Registerer) *PlatformMetrics {
	factory := promauto.With(reg)
	return &PlatformMetrics{
		LatencyHistogram: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "janitor",
				Subsystem: "platform",
				Name:      "call_latency_seconds",
				Help:      "Platform API call latency in seconds, broken down by operation and status.",
				Buckets:   DefaultPlatformLatencyBuckets,
			},
			[]string{"operation", "status"},
		),
		CallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "janitor",
				Subsystem: "platform",
				Name:      "calls_total",
				Help:      "Total number of platform API calls, broken down by operation and status.",
			},
			[]string{"operation", "status"},
		),
	}
}

// RecordCall records one platform API call. It satisfies platform.MetricsRecorder.
func (m *PlatformMetrics) RecordCall(op string, durationSeconds float64, success bool) {
	status := StatusSuccess
	if !success {
		status = StatusFailure
	}
	m.LatencyHistogram.WithLabelValues(op, status).Observe(durationSeconds)
	m.CallsTotal.WithLabelValues(op, status).Inc()
}
