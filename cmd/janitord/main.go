package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"
	"github.com/lambdajanitor/janitor/internal/config"
	"github.com/lambdajanitor/janitor/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	// Handle version flag before subcommand parsing
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-version") {
		fmt.Printf("janitord version %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	subcommand := os.Args[1]
	switch subcommand {
	case "lambda":
		runLambda(os.Args[2:])
	case "daemon":
		runDaemon(os.Args[2:])
	case "run":
		runOnce(os.Args[2:])
	case "version":
		fmt.Printf("janitord version %s (built %s, commit %s)\n", version, buildTime, gitCommit)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: janitord <command> [options]

Commands:
  lambda      Serve scheduled events as an AWS Lambda function
  daemon      Run cleanups on a cron schedule in a long-lived process
  run         Run a single cleanup invocation and exit
  version     Print version information

Run 'janitord <command> --help' for more information on a command.`)
}

// commonFlags are shared by every command that builds an engine.
type commonFlags struct {
	configPath *string
	keep       *int
	dryRun     *bool
	region     *string
	endpoint   *string
}

func registerCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		configPath: fs.String("config", "", "Path to configuration file"),
		keep:       fs.Int("keep", -1, "Override the number of recent versions to keep"),
		dryRun:     fs.Bool("dry-run", false, "Log deletions without performing them"),
		region:     fs.String("region", "", "Override the AWS region"),
		endpoint:   fs.String("endpoint", "", "Override the Lambda endpoint URL"),
	}
}

// loadConfig loads configuration and applies CLI overrides. It exits the
// process on failure.
func (f commonFlags) loadConfig() *config.Config {
	var cfg *config.Config
	var err error
	if *f.configPath != "" {
		cfg, err = config.LoadFromPath(*f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *f.keep >= 0 {
		cfg.Janitor.VersionsToKeep = *f.keep
	}
	if *f.dryRun {
		cfg.Janitor.DryRun = true
	}
	if *f.region != "" {
		cfg.Lambda.Region = *f.region
	}
	if *f.endpoint != "" {
		cfg.Lambda.Endpoint = *f.endpoint
	}
	return cfg
}

func newLogger(cfg *config.Config) *logging.Logger {
	return logging.Configure(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
}

func runLambda(args []string) {
	fs := flag.NewFlagSet("lambda", flag.ExitOnError)
	flags := registerCommonFlags(fs)

	fs.Usage = func() {
		fmt.Println(`Usage: janitord lambda [options]

Serve scheduled (EventBridge/CloudWatch) events from the AWS Lambda runtime.
Each event runs one cleanup invocation. The work queue lives for as long as
the execution environment does, so an invocation that times out or fails is
resumed by the next one.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg := flags.loadConfig()
	logger := newLogger(cfg)

	app, err := NewApp(context.Background(), AppOptions{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.DefaultRegisterer,
	})
	if err != nil {
		logger.Errorf("failed to create janitor", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	logger.Infof("starting lambda handler", map[string]any{
		"version":        version,
		"versionsToKeep": cfg.Janitor.VersionsToKeep,
		"dryRun":         cfg.Janitor.DryRun,
	})
	lambda.Start(app.HandleScheduledEvent)
}

func runDaemon(args []string) {
	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	flags := registerCommonFlags(fs)
	schedule := fs.String("schedule", "", "Override the cron schedule (e.g., \"@every 30m\")")
	metricsAddr := fs.String("metrics-addr", "", "Override metrics endpoint address (e.g., :9090)")
	runNow := fs.Bool("run-now", false, "Run one cleanup immediately on start")

	fs.Usage = func() {
		fmt.Println(`Usage: janitord daemon [options]

Run cleanups on a cron schedule and serve /metrics and /healthz.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg := flags.loadConfig()
	if *schedule != "" {
		cfg.Janitor.Schedule = *schedule
	}
	if *metricsAddr != "" {
		cfg.Observability.MetricsAddr = *metricsAddr
	}
	if cfg.Janitor.Schedule == "" {
		fmt.Fprintln(os.Stderr, "daemon requires a schedule")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	app, err := NewApp(context.Background(), AppOptions{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.DefaultRegisterer,
	})
	if err != nil {
		logger.Errorf("failed to create janitor", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	daemon := NewDaemon(DaemonOptions{
		App:         app,
		Schedule:    cfg.Janitor.Schedule,
		MetricsAddr: cfg.Observability.MetricsAddr,
		Gatherer:    prometheus.DefaultGatherer,
		RunOnStart:  *runNow,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if err := daemon.Start(ctx); err != nil {
		logger.Errorf("failed to start daemon", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	sig := <-sigCh
	logger.Infof("received shutdown signal", map[string]any{"signal": sig.String()})

	// Graceful shutdown
	logger.Info("initiating graceful shutdown")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := daemon.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	logger.Info("daemon shutdown complete")
}

func runOnce(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	flags := registerCommonFlags(fs)
	timeout := fs.Duration("timeout", 15*time.Minute, "Abort the invocation after this long")

	fs.Usage = func() {
		fmt.Println(`Usage: janitord run [options]

Run a single cleanup invocation and exit non-zero if it fails.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg := flags.loadConfig()
	logger := newLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	app, err := NewApp(ctx, AppOptions{Config: cfg, Logger: logger})
	if err != nil {
		logger.Errorf("failed to create janitor", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	ctx = logging.WithInvocationIDCtx(ctx, uuid.NewString())
	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
