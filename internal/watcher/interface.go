package watcher

import "context"

// Watcher defines the interface for file system monitoring
type Watcher interface {
	// Start blocks, handling new videos until ctx is done.
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is called once per newly created video file.
type EventHandler func(ctx context.Context, filePath string) error
