package projects

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const defaultDebounce = 250 * time.Millisecond

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for events to settle before
// invalidating.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger overrides the watcher logger.
func WithWatcherLogger(logger interfaces.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithMatch restricts invalidation to file names accepted by match.
func WithMatch(match func(name string) bool) WatcherOption {
	return func(w *Watcher) {
		if match != nil {
			w.match = match
		}
	}
}

// Watcher invalidates a target whenever files in the content directory
// change. The parent directory is watched too so that a content directory
// created after startup is picked up.
type Watcher struct {
	dir      string
	target   Invalidator
	debounce time.Duration
	logger   interfaces.Logger
	match    func(string) bool

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewWatcher constructs a watcher for dir. Call Start to begin watching.
func NewWatcher(dir string, target Invalidator, opts ...WatcherOption) *Watcher {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = filepath.Clean(dir)
	}
	w := &Watcher{
		dir:      abs,
		target:   target,
		debounce: defaultDebounce,
		logger:   logging.NoOp(),
		match:    func(string) bool { return true },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Start begins watching in a background goroutine. It returns once the
// watches are registered. Calling Start on a running watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	if w.target == nil {
		return errors.New("projects watcher: invalidation target is nil")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	parent := filepath.Dir(w.dir)
	if err := fsw.Add(parent); err != nil {
		w.logger.Debug("projects.watch.parent_skipped", "dir", parent, "error", err)
	}
	if _, statErr := os.Stat(w.dir); statErr == nil {
		if err := fsw.Add(w.dir); err != nil {
			fsw.Close()
			return err
		}
	} else {
		w.logger.Info("projects.watch.waiting", "dir", w.dir)
	}

	w.watcher = fsw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true

	go w.run(ctx, fsw, w.stopCh, w.doneCh)

	w.logger.Info("projects.watch.started", "dir", w.dir, "debounce", w.debounce.String())
	return nil
}

// Stop ends the watch loop and releases the underlying watcher. It blocks
// until the loop goroutine has exited.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	fsw, stopCh, doneCh := w.watcher, w.stopCh, w.doneCh
	w.watcher = nil
	w.mu.Unlock()

	close(stopCh)
	<-doneCh

	err := fsw.Close()
	w.logger.Info("projects.watch.stopped", "dir", w.dir)
	return err
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(fsw, event) {
				continue
			}
			w.logger.Debug("projects.watch.event", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("projects.watch.error", "error", err)
		case <-fire:
			fire = nil
			w.target.Invalidate()
			w.logger.Info("projects.watch.invalidated", "dir", w.dir)
		}
	}
}

func (w *Watcher) relevant(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Clean(event.Name)
	if name == w.dir {
		if event.Has(fsnotify.Create) {
			if err := fsw.Add(w.dir); err != nil {
				w.logger.Warn("projects.watch.add_failed", "dir", w.dir, "error", err)
			}
		}
		return true
	}
	if filepath.Dir(name) != w.dir {
		return false
	}
	return w.match(filepath.Base(name))
}
