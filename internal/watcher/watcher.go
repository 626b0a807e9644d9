// Package watcher provides file watching with debouncing using fsnotify.
// Editors save files via write, truncate or rename-over, so the parent
// directory is watched and events are filtered by name; a debounce window
// collapses each burst of events into a single callback.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// relevantOps are the operations that mean the file content may have
// changed or the file was replaced.
const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watch blocks watching path and invokes fn once per settled burst of
// changes, until ctx is cancelled (returns ctx.Err()) or the underlying
// watcher fails. fn runs on the watch goroutine; events arriving while fn
// runs are queued by fsnotify and debounced like any others.
func Watch(ctx context.Context, path string, debounce time.Duration, fn func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory, not the file: rename-over saves would
	// otherwise detach the watch.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	if debounce <= 0 {
		debounce = time.Millisecond
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&relevantOps == 0 {
				continue
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			pending = true

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", abs, err)

		case <-timer.C:
			pending = false
			fn()
		}
	}
}
