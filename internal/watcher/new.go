package watcher

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/logger"
)

const defaultSettleDelay = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Dir string
	// IsVideo selects which created files are handed to the handler.
	IsVideo func(path string) bool
	// SettleDelay is how long a new file must stay unchanged before it is
	// handled.
	SettleDelay time.Duration
}

// New watches opts.Dir and every non-hidden subdirectory below it.
func New(opts Options, handler EventHandler, log logger.Logger) (Watcher, error) {
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = defaultSettleDelay
	}
	if opts.IsVideo == nil {
		return nil, fmt.Errorf("watcher needs a video matcher")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &implWatcher{
		opts:    opts,
		handler: handler,
		logger:  log,
		watcher: fw,
		pending: make(map[string]time.Time),
	}
	if err := w.addTree(opts.Dir); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// addTree adds dir and its non-hidden subdirectories to the watch list.
func (w *implWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("add watch path %s: %w", path, err)
		}
		return nil
	})
}
