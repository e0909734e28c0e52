package platform

import (
	"context"
	"time"
)

// MetricsRecorder is the interface for recording platform call metrics.
// This allows the platform package to be decoupled from the metrics package.
type MetricsRecorder interface {
	RecordCall(op string, durationSeconds float64, success bool)
}

// InstrumentedClient wraps a Client and records metrics for each call.
type InstrumentedClient struct {
	client  Client
	metrics MetricsRecorder
}

// NewInstrumentedClient creates an instrumented wrapper around a Client.
// If metrics is nil, no metrics are recorded and calls pass through directly.
func NewInstrumentedClient(client Client, metrics MetricsRecorder) *InstrumentedClient {
	return &InstrumentedClient{
		client:  client,
		metrics: metrics,
	}
}

// ListFunctions lists every function identifier.
func (c *InstrumentedClient) ListFunctions(ctx context.Context) ([]string, error) {
	start := time.Now()
	fns, err := c.client.ListFunctions(ctx)
	c.record(OpListFunctions, start, err)
	return fns, err
}

// ListVersions lists the published versions of a function.
func (c *InstrumentedClient) ListVersions(ctx context.Context, function string) ([]string, error) {
	start := time.Now()
	versions, err := c.client.ListVersions(ctx, function)
	c.record(OpListVersions, start, err)
	return versions, err
}

// ListAliasedVersions lists the versions referenced by an alias.
func (c *InstrumentedClient) ListAliasedVersions(ctx context.Context, function string) ([]string, error) {
	start := time.Now()
	versions, err := c.client.ListAliasedVersions(ctx, function)
	c.record(OpListAliasedVersions, start, err)
	return versions, err
}

// DeleteVersion deletes a published version.
func (c *InstrumentedClient) DeleteVersion(ctx context.Context, function, version string) error {
	start := time.Now()
	err := c.client.DeleteVersion(ctx, function, version)
	c.record(OpDeleteVersion, start, err)
	return err
}

func (c *InstrumentedClient) record(op string, start time.Time, err error) {
	if c.metrics != nil {
		c.metrics.RecordCall(op, time.Since(start).Seconds(), err == nil)
	}
}

// Unwrap returns the underlying client.
func (c *InstrumentedClient) Unwrap() Client {
	return c.client
}
