// Package watcher reports changes to the open document file with debouncing.
package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/orchard/internal/log"
	"github.com/zjrosen/orchard/internal/pubsub"
)

// Change is published when the watched file settles after a burst of writes.
type Change struct {
	Path    string
	Removed bool
}

// Watcher monitors one document file. Editors usually save by rename, so the
// containing directory is watched and events are filtered by name.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	broker    *pubsub.Broker[Change]
	done      chan struct{}
	stopped   chan struct{} // nil until Start runs the loop
}

// Config holds watcher configuration options.
type Config struct {
	Path        string
	DebounceDur time.Duration
}

// DefaultConfig returns the default configuration for path.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		DebounceDur: 300 * time.Millisecond,
	}
}

// New creates a watcher for cfg.Path.
func New(cfg Config) (*Watcher, error) {
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", cfg.Path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsWatcher: fsw,
		path:      abs,
		debounce:  cfg.DebounceDur,
		broker:    pubsub.NewBrokerWithBuffer[Change](4),
		done:      make(chan struct{}),
	}, nil
}

// Broker returns the broker changes are published on.
func (w *Watcher) Broker() *pubsub.Broker[Change] { return w.broker }

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Start begins watching. Subscribe to Broker before calling it to see every
// change.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	log.Debug(log.CatWatcher, "watching", "path", w.path)
	w.stopped = make(chan struct{})
	go w.loop()
	return nil
}

// Stop terminates the watcher and closes the broker.
func (w *Watcher) Stop() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.fsWatcher.Close()
	if w.stopped != nil {
		<-w.stopped
	}
	w.broker.Close()
	return err
}

func (w *Watcher) loop() {
	defer close(w.stopped)
	var (
		timer   *time.Timer
		pending *Change
	)
	fire := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			removed := event.Op&(fsnotify.Remove|fsnotify.Rename) != 0
			if pending == nil {
				pending = &Change{Path: w.path}
			}
			// An atomic save is Rename followed by Create; the last op wins.
			pending.Removed = removed

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-fire():
			timer = nil
			if pending != nil {
				log.Debug(log.CatWatcher, "document changed", "path", pending.Path, "removed", pending.Removed)
				w.broker.Publish(pubsub.UpdatedEvent, *pending)
				pending = nil
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "watch error", err, "path", w.path)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}
