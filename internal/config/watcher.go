package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads settings when the file on disk changes and notifies
// subscribers with the new value. Invalid files are skipped and the last
// good settings stay in effect.
type Watcher struct {
	path     string
	onChange func(*Settings)
	onError  func(error)

	mu      sync.RWMutex
	current *Settings
}

// NewWatcher creates a watcher for the given settings path. onChange is
// called with each successfully loaded settings value; onError may be nil.
func NewWatcher(path string, initial *Settings, onChange func(*Settings), onError func(error)) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		onError:  onError,
		current:  initial,
	}
}

// Current returns the most recently loaded settings.
func (w *Watcher) Current() *Settings {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Watch blocks until the context is cancelled, reloading on file changes.
// The parent directory is watched rather than the file itself so that
// editors that replace the file atomically are still observed.
func (w *Watcher) Watch(ctx context.Context) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch settings directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-watcher.Events:
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()
		case werr := <-watcher.Errors:
			if w.onError != nil {
				w.onError(werr)
			}
		}
	}
}

func (w *Watcher) reload() {
	settings, err := LoadFrom(w.path)
	if err == nil {
		err = settings.Validate()
	}
	if err != nil {
		if w.onError != nil {
			w.onError(fmt.Errorf("reload settings: %w", err))
		}
		return
	}

	w.mu.Lock()
	w.current = settings
	w.mu.Unlock()

	if w.onChange != nil {
		w.onChange(settings)
	}
}
