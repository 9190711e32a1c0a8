package page

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/ytpdc/internal/infra/clock"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Errors
var (
	ErrAlreadyStarted = errors.New("watcher already started")
	ErrFileRemoved    = errors.New("watched page was removed")
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithScheduler sets the scheduler used for debouncing.
func WithScheduler(s clock.Scheduler) WatcherOption {
	return func(w *Watcher) {
		w.scheduler = s
	}
}

// WithOnError sets the callback invoked on errors.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watcher refreshes a File whenever it is rewritten on disk.
type Watcher struct {
	file      *File
	debounce  time.Duration
	scheduler clock.Scheduler
	onError   func(error)

	mu          sync.Mutex
	fsWatcher   *fsnotify.Watcher
	cancelTimer func()
	ctx         context.Context
	cancel      context.CancelFunc
	started     bool
}

// NewWatcher creates a watcher for file.
func NewWatcher(file *File, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		file:      file,
		debounce:  DefaultDebounce,
		scheduler: clock.Real{},
		onError:   func(err error) { zlog.Error().Err(err).Msg("page: watcher") },
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching the page file.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	// Watch the directory: editors and browsers replace files atomically.
	if err := fsw.Add(filepath.Dir(w.file.Path())); err != nil {
		fsw.Close()
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(w.file.Path()))
	}

	w.fsWatcher = fsw
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.started = true

	go w.loop(fsw.Events, fsw.Errors)
	return nil
}

// Stop stops watching. Stop is idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.cancelTimer != nil {
		w.cancelTimer()
		w.cancelTimer = nil
	}
	w.fsWatcher.Close()
	w.fsWatcher = nil
	w.started = false
}

func (w *Watcher) loop(events <-chan fsnotify.Event, errs <-chan error) {
	target := filepath.Base(w.file.Path())
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.Trigger()
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// Trigger schedules a refresh after the debounce delay, replacing any
// refresh already scheduled.
func (w *Watcher) Trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancelTimer != nil {
		w.cancelTimer()
	}
	w.cancelTimer = w.scheduler.AfterFunc(w.debounce, w.refresh)
}

func (w *Watcher) refresh() {
	w.mu.Lock()
	w.cancelTimer = nil
	w.mu.Unlock()

	if _, err := w.file.Refresh(); err != nil {
		w.onError(err)
	}
}
