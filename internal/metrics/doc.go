// Package metrics provides Prometheus metrics for the janitor.
//
// This package exposes:
//   - run counts and durations broken down by success/failure
//   - cleanup cycles started and the pending work queue depth
//   - functions cleaned, versions deleted and versions kept
//   - platform API call latency and counts by operation and status
//
// In daemon mode metrics are exposed via a dedicated HTTP server on /metrics
// in Prometheus format, next to a /healthz liveness endpoint. In Lambda mode
// the same collectors are registered but not served.
//
// Usage:
//
//	janitorMetrics := metrics.NewJanitorMetrics()
//	platformMetrics := metrics.NewPlatformMetrics()
//
//	client := platform.NewInstrumentedClient(lambdaClient, platformMetrics)
//	engine := janitor.NewEngine(client, cfg).WithMetrics(janitorMetrics)
//
//	metricsServer := metrics.NewServer(":9090")
//	metricsServer.Start()
package metrics
