// Package watch reports changes to resource directories, debounced per
// directory.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 300 * time.Millisecond

// Handler receives the base names of the files that changed in a directory.
type Handler func(changed []string)

type Watcher struct {
	logger   *slog.Logger
	debounce time.Duration
	fs       *fsnotify.Watcher

	mu       sync.Mutex
	handlers map[string]Handler
	pending  map[string]map[string]struct{}
	timers   map[string]*time.Timer
}

func New(logger *slog.Logger, debounce time.Duration) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch init failed: %w", err)
	}

	return &Watcher{
		logger:   logger,
		debounce: debounce,
		fs:       fsw,
		handlers: make(map[string]Handler),
		pending:  make(map[string]map[string]struct{}),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Watch registers fn for changes directly inside dir.
func (w *Watcher) Watch(dir string, fn Handler) error {
	dir = filepath.Clean(dir)
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.mu.Lock()
	w.handlers[dir] = fn
	w.mu.Unlock()

	w.logger.Debug("Watching directory", "dir", dir)
	return nil
}

// Run dispatches events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watch error", "error", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}

	name := filepath.Base(ev.Name)
	// temp files from atomic writes
	if strings.Contains(name, ".tmp.") {
		return
	}

	dir := filepath.Dir(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.handlers[dir]; !ok {
		return
	}
	if w.pending[dir] == nil {
		w.pending[dir] = make(map[string]struct{})
	}
	w.pending[dir][name] = struct{}{}

	if t := w.timers[dir]; t != nil {
		t.Stop()
	}
	w.timers[dir] = time.AfterFunc(w.debounce, func() { w.flush(dir) })
}

func (w *Watcher) flush(dir string) {
	w.mu.Lock()
	fn := w.handlers[dir]
	set := w.pending[dir]
	delete(w.pending, dir)
	delete(w.timers, dir)
	w.mu.Unlock()

	if fn == nil || len(set) == 0 {
		return
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	w.logger.Debug("Directory changed", "dir", dir, "files", names)
	fn(names)
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for dir, t := range w.timers {
		t.Stop()
		delete(w.timers, dir)
	}
}

func (w *Watcher) Close() error {
	w.stopTimers()
	return w.fs.Close()
}
