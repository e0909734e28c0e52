package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/lambdajanitor/janitor/internal/logging"
	"github.com/lambdajanitor/janitor/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

// DaemonOptions contains the configuration for creating a Daemon.
type DaemonOptions struct {
	App      *App
	Schedule string

	// MetricsAddr is where /metrics and /healthz are served. Empty disables
	// the server.
	MetricsAddr string
	Gatherer    prometheus.Gatherer

	// RunOnStart triggers one invocation as soon as the daemon starts.
	RunOnStart bool
}

// Daemon runs cleanup invocations on a cron schedule.
type Daemon struct {
	opts          DaemonOptions
	logger        *logging.Logger
	cron          *cron.Cron
	metricsServer *metrics.Server

	mu           sync.Mutex
	started      bool
	shuttingDown bool
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewDaemon creates a Daemon. Call Start to begin scheduling.
func NewDaemon(opts DaemonOptions) *Daemon {
	return &Daemon{
		opts:   opts,
		logger: opts.App.logger,
	}
}

// Start schedules the cleanup job and starts the metrics server.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return errors.New("daemon already started")
	}

	runCtx, cancel := context.WithCancel(ctx)

	cl := cronLogger{logger: d.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(d.opts.Schedule, func() { d.invoke(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("invalid schedule %q: %w", d.opts.Schedule, err)
	}

	if d.opts.MetricsAddr != "" {
		var srv *metrics.Server
		if d.opts.Gatherer != nil {
			srv = metrics.NewServerWithRegistry(d.opts.MetricsAddr, d.opts.Gatherer)
		} else {
			srv = metrics.NewServer(d.opts.MetricsAddr)
		}
		srv = srv.WithHealthCheck(d.healthCheck).WithLogger(d.logger)
		if err := srv.Start(); err != nil {
			cancel()
			return fmt.Errorf("start metrics server: %w", err)
		}
		d.metricsServer = srv
		d.logger.Infof("metrics server started", map[string]any{"addr": srv.Addr()})
	}

	c.Start()
	d.cron = c
	d.cancel = cancel
	d.started = true

	d.logger.Infof("daemon started", map[string]any{
		"schedule": d.opts.Schedule,
		"next":     c.Entries()[0].Next,
	})

	if d.opts.RunOnStart {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.invoke(runCtx)
		}()
	}
	return nil
}

// invoke runs one cleanup under a fresh invocation ID. Failures are logged
// by the engine and retried on the next tick.
func (d *Daemon) invoke(ctx context.Context) {
	ctx = logging.WithInvocationIDCtx(ctx, uuid.NewString())
	_ = d.opts.App.Run(ctx)
}

func (d *Daemon) healthCheck(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shuttingDown {
		return errors.New("shutting down")
	}
	return nil
}

// MetricsAddr returns the bound metrics server address, or "" if the server
// is disabled or not started.
func (d *Daemon) MetricsAddr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.metricsServer == nil {
		return ""
	}
	return d.metricsServer.Addr()
}

// Shutdown stops scheduling and waits for a running invocation to finish.
// If ctx expires first the invocation is cancelled; its function stays
// queued.
func (d *Daemon) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.started || d.shuttingDown {
		d.mu.Unlock()
		return nil
	}
	d.shuttingDown = true
	c, cancel, srv := d.cron, d.cancel, d.metricsServer
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		<-c.Stop().Done()
		d.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("waiting for running cleanup: %w", ctx.Err())
	}
	cancel()

	if srv != nil {
		if cerr := srv.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugf("cron: "+msg, kvFields(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	fields := kvFields(keysAndValues)
	fields["error"] = err.Error()
	l.logger.Errorf("cron: "+msg, fields)
}

func kvFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
