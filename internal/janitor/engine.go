package janitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lambdajanitor/janitor/internal/logging"
	"github.com/lambdajanitor/janitor/internal/platform"
)

// Config configures the cleanup engine.
type Config struct {
	// KeepCount is the number of most recent versions kept per function
	// regardless of alias status. Negative values are treated as zero.
	KeepCount int

	// DryRun computes and logs deletions without performing them.
	DryRun bool

	// Logger receives run and per-function logs. Defaults to the global logger.
	Logger *logging.Logger
}

// MetricsRecorder is the interface for recording engine progress.
// This allows the janitor package to be decoupled from the metrics package.
type MetricsRecorder interface {
	RecordRun(durationSeconds float64, success bool)
	RecordCycleStarted()
	RecordQueueDepth(depth int)
	RecordVersionDeleted()
	RecordFunctionCleaned(kept int)
}

// Stats is a snapshot of the engine's cumulative counters.
type Stats struct {
	Runs             int64
	FailedRuns       int64
	Cycles           int64
	FunctionsCleaned int64
	VersionsDeleted  int64
	QueueDepth       int
	LastRunAt        time.Time
	LastErr          error
}

// Engine cleans function versions across repeated, time-limited runs.
//
// An Engine must be created once per process and reused: the work queue it
// holds is what lets a failed or interrupted Run resume where it stopped.
type Engine struct {
	client  platform.Client
	config  Config
	logger  *logging.Logger
	metrics MetricsRecorder

	// mu serializes Run; queue and stats are only touched under it.
	mu    sync.Mutex
	queue *Queue
	stats Stats
}

// NewEngine creates a new cleanup engine with an empty work queue.
func NewEngine(client platform.Client, config Config) *Engine {
	if config.KeepCount < 0 {
		config.KeepCount = 0
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Global()
	}
	return &Engine{
		client: client,
		config: config,
		logger: logger,
		queue:  NewQueue(),
	}
}

// WithMetrics sets the metrics recorder.
func (e *Engine) WithMetrics(m MetricsRecorder) *Engine {
	e.metrics = m
	return e
}

// Run performs one invocation: it refills the work queue if it is empty,
// then cleans functions from the head of the queue until the queue is empty
// or a call fails.
//
// A function is removed from the queue only after all of its deletions
// succeeded. On failure Run returns the first error and leaves the failing
// function at the head so the next Run retries it. Runs are serialized.
func (e *Engine) Run(ctx context.Context) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logger := logging.ContextLogger(ctx, e.logger)
	start := time.Now()

	var deleted, cleaned int
	defer func() {
		e.stats.Runs++
		e.stats.LastRunAt = start
		e.stats.LastErr = err
		e.stats.QueueDepth = e.queue.Len()
		if err != nil {
			e.stats.FailedRuns++
		}
		if e.metrics != nil {
			e.metrics.RecordRun(time.Since(start).Seconds(), err == nil)
			e.metrics.RecordQueueDepth(e.queue.Len())
		}

		fields := map[string]any{
			"functionsCleaned": cleaned,
			"versionsDeleted":  deleted,
			"pending":          e.queue.Len(),
			"durationMs":       time.Since(start).Milliseconds(),
		}
		if err != nil {
			fields["error"] = err.Error()
			logger.Errorf("cleanup run failed", fields)
			return
		}
		logger.Infof("cleanup run finished", fields)
	}()

	if e.queue.IsEmpty() {
		functions, err := e.client.ListFunctions(ctx)
		if err != nil {
			return fmt.Errorf("list functions: %w", err)
		}
		e.queue.Populate(functions)
		if len(functions) == 0 {
			logger.Info("no functions to clean")
			return nil
		}

		e.stats.Cycles++
		if e.metrics != nil {
			e.metrics.RecordCycleStarted()
			e.metrics.RecordQueueDepth(e.queue.Len())
		}
		logger.Infof("cleanup cycle started", map[string]any{
			"functions": len(functions),
			"keepCount": e.config.KeepCount,
			"dryRun":    e.config.DryRun,
		})
	} else {
		logger.Infof("resuming cleanup cycle", map[string]any{"pending": e.queue.Len()})
	}

	for !e.queue.IsEmpty() {
		function, err := e.queue.PeekHead()
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("clean %s: %w", function, err)
		}

		n, err := e.cleanFunction(ctx, logger, function)
		deleted += n
		if err != nil {
			return fmt.Errorf("clean %s: %w", function, err)
		}

		if err := e.queue.PopHead(); err != nil {
			return err
		}
		cleaned++
		e.stats.FunctionsCleaned++
		if e.metrics != nil {
			e.metrics.RecordQueueDepth(e.queue.Len())
		}
	}

	return nil
}

// cleanFunction applies the retention policy to one function and returns the
// number of versions it deleted, including those deleted before a failure.
func (e *Engine) cleanFunction(ctx context.Context, logger *logging.Logger, function string) (int, error) {
	logger = logger.With(map[string]any{"function": function})

	versions, err := e.client.ListVersions(ctx, function)
	if err != nil {
		return 0, err
	}
	if len(versions) == 0 {
		logger.Debug("function has no published versions")
		if e.metrics != nil {
			e.metrics.RecordFunctionCleaned(0)
		}
		return 0, nil
	}

	aliased, err := e.client.ListAliasedVersions(ctx, function)
	if err != nil {
		return 0, err
	}

	toDelete := DecideDeletions(versions, aliased, e.config.KeepCount)
	kept := len(versions) - len(toDelete)

	deleted := 0
	for _, version := range toDelete {
		if e.config.DryRun {
			logger.Infof("dry run: would delete version", map[string]any{"version": version})
			continue
		}
		if err := e.client.DeleteVersion(ctx, function, version); err != nil {
			return deleted, err
		}
		deleted++
		e.stats.VersionsDeleted++
		if e.metrics != nil {
			e.metrics.RecordVersionDeleted()
		}
		logger.Debugf("deleted version", map[string]any{"version": version})
	}

	if e.metrics != nil {
		e.metrics.RecordFunctionCleaned(kept)
	}
	logger.Infof("function cleaned", map[string]any{
		"versions": len(versions),
		"aliased":  len(aliased),
		"deleted":  deleted,
		"kept":     kept,
	})
	return deleted, nil
}

// Pending returns the functions still queued in the current cycle, head first.
func (e *Engine) Pending() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Snapshot()
}

// Stats returns a snapshot of the engine's counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.stats
	s.QueueDepth = e.queue.Len()
	return s
}
