// Package watcher runs the analysis for every export dropped into a directory.
package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Config contains watcher settings.
type Config struct {
	Debounce        time.Duration // quiet period before a new file is picked up
	StableThreshold time.Duration // size must hold this long before reading
	IgnorePatterns  []string      // extra glob patterns on top of the scanner defaults
}

// DefaultConfig returns the watcher defaults.
func DefaultConfig() Config {
	return Config{
		Debounce:        2 * time.Second,
		StableThreshold: time.Second,
	}
}

// Summary contains stats from the watch session.
type Summary struct {
	Reports  int
	Failed   int
	Skipped  int
	Duration time.Duration
}

// FileHandler runs the pipeline for one export.
type FileHandler func(ctx context.Context, path string) error

// Watcher monitors directories for new exports. Handler calls are
// serialized; only one report is produced at a time.
type Watcher struct {
	config    Config
	handler   FileHandler
	logger    *zap.Logger
	filter    *FileFilter
	stability *StabilityChecker
	debouncer *Debouncer

	fsWatcher *fsnotify.Watcher
	ctx       context.Context
	cancel    context.CancelFunc
	loop      sync.WaitGroup
	inflight  sync.WaitGroup
	runMu     sync.Mutex
	startTime time.Time

	mu      sync.Mutex
	running bool
	reports int
	failed  int
	skipped int
}

// New creates a Watcher. A nil logger disables logging.
func New(config Config, handler FileHandler, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		config:    config,
		handler:   handler,
		logger:    logger,
		filter:    NewFileFilter(config.IgnorePatterns),
		stability: NewStabilityChecker(config.StableThreshold),
	}
	w.debouncer = NewDebouncer(config.Debounce, w.process)
	return w
}

// Start begins watching dirs. It returns once the watches are installed;
// events are handled in the background until Stop.
func (w *Watcher) Start(dirs ...string) error {
	if len(dirs) == 0 {
		return errors.New("no directory to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			fsw.Close()
			return err
		}
		if err := fsw.Add(abs); err != nil {
			fsw.Close()
			return err
		}
		w.logger.Info("watching directory", zap.String("dir", abs))
	}

	w.fsWatcher = fsw
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.startTime = time.Now()

	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	w.loop.Add(1)
	go w.processEvents()
	return nil
}

// Stop cancels pending work, waits for a running handler to return and
// reports the session counters.
func (w *Watcher) Stop() Summary {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		w.debouncer.Stop()
		w.cancel()
		w.fsWatcher.Close()
		w.loop.Wait()
		w.inflight.Wait()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	summary := Summary{
		Reports: w.reports,
		Failed:  w.failed,
		Skipped: w.skipped,
	}
	if !w.startTime.IsZero() {
		summary.Duration = time.Since(w.startTime)
	}
	return summary
}

// IsRunning returns true between Start and Stop.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) processEvents() {
	defer w.loop.Done()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				w.handleCreate(event.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleCreate(path string) {
	if !w.filter.ShouldProcess(path) {
		w.logger.Debug("ignoring file", zap.String("path", path))
		w.count(&w.skipped)
		return
	}
	w.debouncer.Add(path)
}

// process runs on the debouncer's timer goroutine.
func (w *Watcher) process(path string) {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.inflight.Add(1)
	w.mu.Unlock()
	defer w.inflight.Done()

	if err := w.stability.WaitForStable(w.ctx, path); err != nil {
		if w.ctx.Err() != nil {
			return
		}
		w.logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
		w.count(&w.skipped)
		return
	}

	w.runMu.Lock()
	defer w.runMu.Unlock()
	if w.ctx.Err() != nil {
		return
	}

	if w.handler == nil {
		w.count(&w.skipped)
		return
	}
	if err := w.handler(w.ctx, path); err != nil {
		w.logger.Error("analysis failed", zap.String("path", path), zap.Error(err))
		w.count(&w.failed)
		return
	}
	w.count(&w.reports)
}

func (w *Watcher) count(counter *int) {
	w.mu.Lock()
	*counter++
	w.mu.Unlock()
}
