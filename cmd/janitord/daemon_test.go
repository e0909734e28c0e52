package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/lambdajanitor/janitor/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaemon_RunOnStartAndHealth(t *testing.T) {
	client := platform.NewMockClient()
	client.AddFunction("a", []string{"1", "2", "3"}, nil)
	app, reg := newTestApp(t, client, 1, nil)

	d := NewDaemon(DaemonOptions{
		App:         app,
		Schedule:    "@every 1h",
		MetricsAddr: "127.0.0.1:0",
		Gatherer:    reg,
		RunOnStart:  true,
	})
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(func() { _ = d.Shutdown(context.Background()) })

	require.Eventually(t, func() bool {
		return app.Engine().Stats().Runs == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"3"}, client.Versions("a"))

	resp, err := http.Get("http://" + d.MetricsAddr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get("http://" + d.MetricsAddr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "janitor_versions_deleted_total 2")

	require.NoError(t, d.Shutdown(context.Background()))
	assert.Error(t, d.healthCheck(context.Background()))
}

func TestDaemon_InvalidSchedule(t *testing.T) {
	app, _ := newTestApp(t, platform.NewMockClient(), 0, nil)

	d := NewDaemon(DaemonOptions{App: app, Schedule: "whenever"})
	assert.Error(t, d.Start(context.Background()))
}

func TestDaemon_StartTwice(t *testing.T) {
	app, _ := newTestApp(t, platform.NewMockClient(), 0, nil)

	d := NewDaemon(DaemonOptions{App: app, Schedule: "@every 1h"})
	require.NoError(t, d.Start(context.Background()))
	defer d.Shutdown(context.Background())

	assert.Error(t, d.Start(context.Background()))
	assert.Empty(t, d.MetricsAddr())
}

func TestDaemon_ShutdownBeforeStart(t *testing.T) {
	app, _ := newTestApp(t, platform.NewMockClient(), 0, nil)
	d := NewDaemon(DaemonOptions{App: app, Schedule: "@every 1h"})
	assert.NoError(t, d.Shutdown(context.Background()))
}

func TestCronLogger(t *testing.T) {
	fields := kvFields([]any{"now", 1, "entry", 2, "dangling"})
	assert.Equal(t, map[string]any{"now": 1, "entry": 2}, fields)

	app, _ := newTestApp(t, platform.NewMockClient(), 0, nil)
	l := cronLogger{logger: app.logger}
	assert.NotPanics(t, func() {
		l.Info("wake", "now", time.Now())
		l.Error(errors.New("boom"), "panic", "stack", "...")
	})
}
