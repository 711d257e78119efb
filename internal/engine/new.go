package engine

import (
	"context"
	"time"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/gateway"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/logger"
)

// MinResponseLength is the shortest trimmed response accepted as a brief.
const MinResponseLength = 10

// DefaultMaxRetries is the attempt ceiling when none is configured.
const DefaultMaxRetries = 3

const (
	loadPause        = 500 * time.Millisecond
	errorDelay       = time.Second
	rateLimitStep    = 2 * time.Second
	rateLimitCeiling = 10 * time.Second
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type implEngine struct {
	gateway    gateway.Gateway
	logger     logger.Logger
	tags       gateway.Tags
	maxRetries int
	sleep      SleepFunc
	observer   Observer
}

// Option customizes an Engine.
type Option func(*implEngine)

// WithMaxRetries sets the attempt ceiling on the working model.
func WithMaxRetries(n int) Option {
	return func(e *implEngine) {
		if n > 0 {
			e.maxRetries = n
		}
	}
}

// WithTags sets the team and use-case tags sent on every acquire.
func WithTags(tags gateway.Tags) Option {
	return func(e *implEngine) { e.tags = tags }
}

// WithSleep replaces the delay function used between attempts and probes.
func WithSleep(fn SleepFunc) Option {
	return func(e *implEngine) {
		if fn != nil {
			e.sleep = fn
		}
	}
}

// WithObserver registers an observer for loads and attempts.
func WithObserver(o Observer) Option {
	return func(e *implEngine) {
		if o != nil {
			e.observer = o
		}
	}
}

// New creates an Engine on top of gw.
func New(gw gateway.Gateway, log logger.Logger, opts ...Option) Engine {
	e := &implEngine{
		gateway:    gw,
		logger:     log,
		maxRetries: DefaultMaxRetries,
		sleep:      sleepContext,
		observer:   nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
