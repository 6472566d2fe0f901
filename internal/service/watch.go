package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ─────────────────────────────────────────────────────────────
// Watcher: cron and seed-file triggers for rebuilds
// ─────────────────────────────────────────────────────────────

// WatchOptions configures the rebuild triggers.
type WatchOptions struct {
	Schedule   string // cron spec; empty disables timed rebuilds
	SeedDir    string
	WatchSeeds bool
	Debounce   time.Duration
}

// Watcher rebuilds the store when its schedule fires or a seed file changes.
// Bursts of file events collapse into one rebuild after Debounce.
type Watcher struct {
	pipeline *Pipeline
	opts     WatchOptions
	logger   *zap.SugaredLogger

	mu        sync.Mutex
	cancel    context.CancelFunc
	fsw       *fsnotify.Watcher
	cronSched *cron.Cron
	timer     *time.Timer
}

// NewWatcher creates a stopped watcher.
func NewWatcher(p *Pipeline, opts WatchOptions, logger *zap.SugaredLogger) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	return &Watcher{pipeline: p, opts: opts, logger: logger}
}

// IsSeedFile reports whether name looks like a seed file.
func IsSeedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".csv":
		return true
	}
	return false
}

// Start tears down any running triggers and installs new ones. Rebuilds run
// with ctx until Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.Stop()

	w.mu.Lock()
	defer w.mu.Unlock()

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	// ── Cron ──
	if w.opts.Schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(w.opts.Schedule, func() {
			w.rebuild(watchCtx, TriggerSchedule, "")
		}); err != nil {
			cancel()
			w.cancel = nil
			return fmt.Errorf("invalid schedule %q: %w", w.opts.Schedule, err)
		}
		c.Start()
		w.cronSched = c
		w.logger.Infow("rebuild schedule installed", "schedule", w.opts.Schedule)
	}

	// ── Seed files ──
	if !w.opts.WatchSeeds {
		return nil
	}
	dir, err := filepath.Abs(w.opts.SeedDir)
	if err != nil {
		return fmt.Errorf("seed dir %q: %w", w.opts.SeedDir, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.fsw = fsw
	go w.loop(watchCtx, fsw)
	w.logger.Infow("watching seed files", "dir", dir, "debounce", w.opts.Debounce)
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !IsSeedFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			name := event.Name
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.timer = time.AfterFunc(w.opts.Debounce, func() {
				w.rebuild(ctx, TriggerFileWatch, name)
			})
			w.mu.Unlock()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context, trigger, file string) {
	if ctx.Err() != nil {
		return
	}
	w.logger.Infow("rebuild triggered", "trigger", trigger, "file", file)
	err := w.pipeline.Rebuild(ctx, trigger)
	switch {
	case errors.Is(err, ErrBusy):
		w.logger.Warnw("rebuild skipped, another run is in progress", "trigger", trigger)
	case err != nil:
		w.logger.Errorw("rebuild failed", "trigger", trigger, "error", err)
	}
}

// Stop removes every trigger. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.fsw != nil {
		w.fsw.Close()
		w.fsw = nil
	}
	if w.cronSched != nil {
		<-w.cronSched.Stop().Done()
		w.cronSched = nil
	}
}
