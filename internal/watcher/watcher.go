package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/logger"
)

type implWatcher struct {
	opts    Options
	handler EventHandler
	logger  logger.Logger
	watcher *fsnotify.Watcher

	// pending maps a file to the time of its last write event.
	pending map[string]time.Time
}

// Start handles new videos one at a time. A file is handled once no write
// event has been seen for SettleDelay.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started. Monitoring: %s", w.opts.Dir)

	ticker := time.NewTicker(w.opts.SettleDelay / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)

		case now := <-ticker.C:
			for _, path := range w.settled(now) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Info(ctx, "New video detected: %s", path)
				if err := w.handler(ctx, path); err != nil {
					w.logger.Error(ctx, "Failed to process %s: %v", path, err)
				}
			}
		}
	}
}

func (w *implWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	name := event.Name
	if strings.HasPrefix(filepath.Base(name), ".") {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(name)
		if err != nil {
			return
		}
		if info.IsDir() {
			if err := w.addTree(name); err != nil {
				w.logger.Warn(ctx, "Failed to watch new directory %s: %v", name, err)
				return
			}
			w.logger.Info(ctx, "Watching new directory: %s", name)
			w.queueExisting(name)
			return
		}
		if w.opts.IsVideo(name) {
			w.pending[name] = time.Now()
		} else {
			w.logger.Debug(ctx, "Ignoring non-video file: %s", name)
		}

	case event.Has(fsnotify.Write):
		if _, ok := w.pending[name]; ok {
			w.pending[name] = time.Now()
		}

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.pending, name)
	}
}

// queueExisting picks up videos already inside a directory that was moved
// into the tree, since no create events fire for them.
func (w *implWatcher) queueExisting(dir string) {
	now := time.Now()
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && w.opts.IsVideo(path) {
			w.pending[path] = now
		}
		return nil
	})
}

// settled removes and returns, in sorted order, files whose last write is
// older than the settle delay.
func (w *implWatcher) settled(now time.Time) []string {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.opts.SettleDelay {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}
