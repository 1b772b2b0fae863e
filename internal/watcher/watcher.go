// Package watcher watches a gallery directory for model changes and fires a
// handler after a debounce window, grouping rapid editor save bursts into one
// re-render.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent represents one observed file change.
type ChangeEvent struct {
	Path string
	Op   string
}

// Filter decides whether a path is interesting.
type Filter func(path string) bool

// Handler receives each debounced batch of changes.
type Handler func(events []ChangeEvent) error

// DirWatcher watches a single directory with debouncing.
type DirWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	filters  []Filter
	handler  Handler
	done     chan struct{}
}

// New creates a watcher with the given debounce window.
func New(debounce time.Duration) (*DirWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &DirWatcher{
		watcher:  fsw,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// AddFilter adds a path filter. All filters must accept a path for its
// events to be delivered.
func (w *DirWatcher) AddFilter(filter Filter) {
	w.filters = append(w.filters, filter)
}

// SetHandler sets the debounced change handler.
func (w *DirWatcher) SetHandler(handler Handler) {
	w.handler = handler
}

// Watch registers dir with the underlying watcher.
func (w *DirWatcher) Watch(dir string) error {
	return w.watcher.Add(dir)
}

// Start runs the event loop until ctx is cancelled or Stop is called.
func (w *DirWatcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Stop closes the watcher and terminates the event loop.
func (w *DirWatcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *DirWatcher) loop(ctx context.Context) {
	var pending []ChangeEvent
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !w.match(event.Name) {
				continue
			}
			pending = append(pending, ChangeEvent{Path: event.Name, Op: event.Op.String()})
			timer.Reset(w.debounce)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		case <-timer.C:
			if len(pending) == 0 || w.handler == nil {
				continue
			}
			batch := pending
			pending = nil
			// Handler errors were already reported by the batch itself.
			_ = w.handler(batch)
		}
	}
}

func (w *DirWatcher) match(path string) bool {
	for _, filter := range w.filters {
		if !filter(path) {
			return false
		}
	}
	return true
}

// ExtFilter accepts only paths with the given extension, case-insensitively.
func ExtFilter(ext string) Filter {
	return func(path string) bool {
		return strings.EqualFold(filepath.Ext(path), ext)
	}
}

// NotHidden rejects dotfiles, including the temp files of atomic preview
// writes.
func NotHidden(path string) bool {
	return !strings.HasPrefix(filepath.Base(path), ".")
}
