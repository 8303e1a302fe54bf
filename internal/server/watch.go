package server

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watcher calls a rebuild function whenever files under a directory change.
// Bursts of events within the debounce window trigger a single rebuild.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	Rebuild  func(ctx context.Context)
	Log      *zap.Logger

	// ready, when set, is closed once the watches are in place.
	ready chan struct{}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := addTree(fw, w.Dir); err != nil {
		return err
	}
	if w.ready != nil {
		close(w.ready)
	}

	// Reset discards any stale expiry, so no drain is needed.
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ignoreEvent(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				// New subdirectories need their own watch.
				_ = addTree(fw, ev.Name)
			}
			log.Debug("source changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(debounce)

		case <-timer.C:
			w.Rebuild(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}

// addTree watches root and every non-hidden directory below it. A root that
// is not a directory is ignored.
func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watching %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// ignoreEvent filters editor noise: chmod-only events, hidden files and
// swap or backup files.
func ignoreEvent(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return true
	}
	base := filepath.Base(ev.Name)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp")
}
