package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stdsdb/internal/domain"
	"stdsdb/internal/etl"
	"stdsdb/internal/publish"
	"stdsdb/internal/standards"
	"stdsdb/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Pipeline Service: build, dump and generate with a run log
// ─────────────────────────────────────────────────────────────

// Run triggers.
const (
	TriggerCLI       = "cli"
	TriggerSchedule  = "schedule"
	TriggerFileWatch = "file_watch"
	TriggerMCP       = "mcp"
)

// ErrBusy is returned when another run holds the store.
var ErrBusy = errors.New("a pipeline run is already in progress")

const storeLock = "store"

// Options locates the pipeline's inputs and outputs.
type Options struct {
	SeedDir       string
	SeedFormat    string
	ExportDir     string
	ExportFormats []string
	Codes         []standards.Code
}

// Pipeline runs the store operations one at a time and records each run.
type Pipeline struct {
	registry  *storage.Registry
	runs      *storage.RunStore
	engine    *etl.Engine
	generator *standards.Generator
	opts      Options
	emitter   EventEmitter
	metrics   *Metrics
	logger    *zap.SugaredLogger
	guard     runGuard
}

// NewPipeline wires the loader and generator over reg. metrics may be nil.
func NewPipeline(
	reg *storage.Registry,
	sink publish.Sink,
	opts Options,
	emitter EventEmitter,
	metrics *Metrics,
	logger *zap.SugaredLogger,
) *Pipeline {
	writer := &etl.TableWriter{Logger: logger}
	if metrics != nil {
		writer.Observer = metrics
		sink = metrics.WrapSink(sink)
	}
	return &Pipeline{
		registry:  reg,
		runs:      storage.NewRunStore(reg.DB()),
		engine:    &etl.Engine{Registry: reg, Dest: writer, Logger: logger},
		generator: standards.NewGenerator(reg, sink, logger),
		opts:      opts,
		emitter:   emitter,
		metrics:   metrics,
		logger:    logger,
	}
}

// Registry exposes the table registry for read-only callers.
func (p *Pipeline) Registry() *storage.Registry { return p.registry }

// ── Runs ───────────────────────────────────────────────────

// Build loads every seed file. With reset the tables are dropped first so a
// rebuild does not duplicate rows.
func (p *Pipeline) Build(ctx context.Context, trigger string, reset bool) (*domain.PipelineRun, *etl.LoadResult, error) {
	if !p.guard.TryLock(storeLock) {
		return nil, nil, ErrBusy
	}
	defer p.guard.Unlock(storeLock)
	return p.build(ctx, trigger, reset)
}

// Dump writes every table back to seed files.
func (p *Pipeline) Dump(ctx context.Context, trigger string) (*domain.PipelineRun, *etl.DumpResult, error) {
	if !p.guard.TryLock(storeLock) {
		return nil, nil, ErrBusy
	}
	defer p.guard.Unlock(storeLock)

	var result *etl.DumpResult
	run, err := p.record(ctx, domain.RunKindDump, trigger, func(run *domain.PipelineRun) error {
		var err error
		result, err = p.engine.Dump(ctx, p.opts.ExportDir, p.opts.ExportFormats)
		if result != nil {
			run.FilesWritten = len(result.Files)
		}
		return err
	})
	return run, result, err
}

// Generate publishes the data files of every configured code.
func (p *Pipeline) Generate(ctx context.Context, trigger string) (*domain.PipelineRun, *standards.GenerateResult, error) {
	if !p.guard.TryLock(storeLock) {
		return nil, nil, ErrBusy
	}
	defer p.guard.Unlock(storeLock)
	return p.generate(ctx, trigger)
}

// Rebuild resets and reloads the store, then regenerates the data files. It
// is the watch daemon's job.
func (p *Pipeline) Rebuild(ctx context.Context, trigger string) error {
	if !p.guard.TryLock(storeLock) {
		return ErrBusy
	}
	defer p.guard.Unlock(storeLock)
	if _, _, err := p.build(ctx, trigger, true); err != nil {
		return err
	}
	_, _, err := p.generate(ctx, trigger)
	return err
}

// Runs returns the most recent runs, newest first.
func (p *Pipeline) Runs(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	return p.runs.List(ctx, limit)
}

// Running lists the locks currently held.
func (p *Pipeline) Running() []string {
	return p.guard.Running()
}

// WaitRunning blocks until the running job finishes or ctx is cancelled.
// Used for graceful shutdown.
func (p *Pipeline) WaitRunning(ctx context.Context) {
	p.guard.WaitAll(ctx)
}

func (p *Pipeline) build(ctx context.Context, trigger string, reset bool) (*domain.PipelineRun, *etl.LoadResult, error) {
	var result *etl.LoadResult
	run, err := p.record(ctx, domain.RunKindBuild, trigger, func(run *domain.PipelineRun) error {
		var err error
		result, err = p.engine.Load(ctx, etl.LoadOptions{
			SeedDir: p.opts.SeedDir,
			Format:  p.opts.SeedFormat,
			Reset:   reset,
		})
		if result != nil {
			run.RecordsRead = result.RecordsRead
			run.RecordsWritten = result.RecordsInserted
			run.RecordsRejected = result.RecordsRejected
		}
		return err
	})
	return run, result, err
}

func (p *Pipeline) generate(ctx context.Context, trigger string) (*domain.PipelineRun, *standards.GenerateResult, error) {
	total := &standards.GenerateResult{}
	run, err := p.record(ctx, domain.RunKindGenerate, trigger, func(run *domain.PipelineRun) error {
		start := time.Now()
		defer func() {
			total.Duration = time.Since(start)
			run.FilesWritten = len(total.Files)
			run.RecordsWritten = total.Records
		}()
		for _, code := range p.opts.Codes {
			res, err := p.generator.Generate(ctx, code)
			if res != nil {
				total.Files = append(total.Files, res.Files...)
				total.Skipped = append(total.Skipped, res.Skipped...)
				total.Records += res.Records
			}
			if err != nil {
				return fmt.Errorf("generate %s: %w", code.Name, err)
			}
		}
		return nil
	})
	return run, total, err
}

// record wraps fn in a run log entry, metrics and lifecycle events.
func (p *Pipeline) record(ctx context.Context, kind domain.RunKind, trigger string, fn func(*domain.PipelineRun) error) (*domain.PipelineRun, error) {
	run := &domain.PipelineRun{Kind: kind, Trigger: trigger}
	if err := p.runs.Start(ctx, run); err != nil {
		return nil, err
	}
	p.emitter.Emit(ctx, EventRunStarted, *run)
	p.logger.Infow("run started", "run_id", run.ID, "kind", kind, "trigger", trigger)

	start := time.Now()
	runErr := fn(run)
	if err := p.runs.Finish(context.WithoutCancel(ctx), run, runErr); err != nil {
		p.logger.Errorw("failed to record run outcome", "run_id", run.ID, "error", err)
	}
	p.metrics.ObserveRun(kind, run.Status, time.Since(start))
	p.emitter.Emit(ctx, EventRunFinished, *run)

	if runErr != nil {
		p.logger.Errorw("run failed", "run_id", run.ID, "kind", kind, "error", runErr)
	} else {
		p.logger.Infow("run finished", "run_id", run.ID, "kind", kind,
			"records_read", run.RecordsRead, "records_written", run.RecordsWritten,
			"records_rejected", run.RecordsRejected, "files_written", run.FilesWritten,
			"duration", time.Since(start))
	}
	return run, runErr
}
