// Package watcher reloads the vector index when its files change on disk.
// An ingest run writes a fresh index directory; a serving process watches
// that directory and swaps the new graph in without a restart.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/samarth-labs/samarth-cli/internal/index/hnsw"
	"github.com/samarth-labs/samarth-cli/internal/logger"
)

// defaultDebounce coalesces the burst of writes an index save produces
// into a single reload.
const defaultDebounce = 500 * time.Millisecond

// IndexWatcher watches an index directory and invokes a reload callback
// when a new index has been written.
type IndexWatcher struct {
	dir      string
	debounce time.Duration
	reload   func(dir string) error
	fsw      *fsnotify.Watcher
}

// New creates a watcher over dir. The reload callback runs after writes to
// the index files settle; errors from it are logged, not fatal, so one bad
// save does not kill the serving process.
func New(dir string, reload func(dir string) error) (*IndexWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	return &IndexWatcher{
		dir:      dir,
		debounce: defaultDebounce,
		reload:   reload,
		fsw:      fsw,
	}, nil
}

// Run blocks, processing filesystem events until ctx is cancelled.
func (w *IndexWatcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("index change detected: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					<-timerC
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if err := w.reload(w.dir); err != nil {
				logger.Warn("index reload failed: %v", err)
				continue
			}
			logger.Info("index reloaded from %s", w.dir)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// relevant reports whether the event should trigger a reload. Only the
// descriptor write signals a complete save; the graph binary is renamed
// into place before the descriptor is written.
func (w *IndexWatcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Base(event.Name) == hnsw.DescriptorFile
}
