// Package watch reruns a callback whenever a SQL file is written.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kiurchv/go-d1/internal/debug"
)

// DefaultDebounce is used when a Watcher is created with a zero debounce.
const DefaultDebounce = 500 * time.Millisecond

// Callback is invoked with the watched file's absolute path.
type Callback func(ctx context.Context, file string) error

// Watcher watches a file for changes
type Watcher struct {
	file     string
	debounce time.Duration
	callback Callback
	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopped  chan struct{}
}

// New watches the directory holding file, so editors that replace the file
// on save are still seen.
func New(file string, debounce time.Duration, callback Callback) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Watcher{
		file:     absPath,
		debounce: debounce,
		callback: callback,
		watcher:  watcher,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// File returns the absolute path being watched.
func (w *Watcher) File() string { return w.file }

// Start runs the callback once, then again after each burst of writes
// settles. If the initial run fails the watcher is closed and its error
// returned; later errors are logged and watching continues until ctx is
// done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.callback(ctx, w.file); err != nil {
		w.watcher.Close()
		close(w.stopped)
		return fmt.Errorf("initial callback failed: %w", err)
	}

	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.stopped)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if path, err := filepath.Abs(event.Name); err == nil && path == w.file {
				timer.Reset(w.debounce)
				fire = timer.C
			}

		case <-fire:
			fire = nil
			if err := w.callback(ctx, w.file); err != nil {
				debug.Warn("watch callback failed", "file", w.file, "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			debug.Warn("watch error", "file", w.file, "error", err)

		case <-ctx.Done():
			return

		case <-w.done:
			return
		}
	}
}

// Wait blocks until the watch loop has exited.
func (w *Watcher) Wait() {
	<-w.stopped
}

// Stop stops watching the file. It must be called once, after a
// successful Start.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.watcher.Close()
	<-w.stopped
	return err
}
