package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/lambdajanitor/janitor/internal/config"
	"github.com/lambdajanitor/janitor/internal/janitor"
	"github.com/lambdajanitor/janitor/internal/logging"
	"github.com/lambdajanitor/janitor/internal/metrics"
	"github.com/lambdajanitor/janitor/internal/platform"
	platformlambda "github.com/lambdajanitor/janitor/internal/platform/lambda"
	"github.com/prometheus/client_golang/prometheus"
)

// AppOptions contains the configuration for creating an App.
type AppOptions struct {
	Config *config.Config
	Logger *logging.Logger

	// Client overrides the Lambda-backed platform client. Used by tests.
	Client platform.Client

	// Registry receives the janitor's collectors. A private registry is
	// used when nil.
	Registry prometheus.Registerer
}

// App wires the cleanup engine to its platform client and metrics. One App
// lives for the whole process so the engine's work queue survives between
// invocations.
type App struct {
	logger *logging.Logger
	engine *janitor.Engine
}

// NewApp creates an App from opts.
func NewApp(ctx context.Context, opts AppOptions) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Global()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	client := opts.Client
	if client == nil {
		cfg := opts.Config.Lambda
		lc, err := platformlambda.New(ctx, platformlambda.Config{
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKey,
			SecretAccessKey: cfg.SecretKey,
			MaxAttempts:     cfg.MaxAttempts,
			PageSize:        int32(cfg.PageSize),
		})
		if err != nil {
			return nil, fmt.Errorf("create lambda client: %w", err)
		}
		client = lc
	}

	client = platform.NewInstrumentedClient(client, metrics.NewPlatformMetricsWithRegistry(reg))

	engine := janitor.NewEngine(client, janitor.Config{
		KeepCount: opts.Config.Janitor.VersionsToKeep,
		DryRun:    opts.Config.Janitor.DryRun,
		Logger:    logger,
	}).WithMetrics(metrics.NewJanitorMetricsWithRegistry(reg))

	return &App{
		logger: logger,
		engine: engine,
	}, nil
}

// Run performs one cleanup invocation.
func (a *App) Run(ctx context.Context) error {
	return a.engine.Run(ctx)
}

// Engine returns the App's cleanup engine.
func (a *App) Engine() *janitor.Engine {
	return a.engine
}
