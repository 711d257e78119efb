package processor

import (
	"errors"
	"sync"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/brief"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/config"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/engine"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/locator"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/logger"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/transcriber"
)

var (
	ErrVideoNotFound      = errors.New("video file not found")
	ErrTranscriptNotFound = errors.New("transcript file not found")
	// ErrNoTranscriber is returned when a transcript is needed but whisper
	// is not configured.
	ErrNoTranscriber = errors.New("transcription is not configured")
)

// FileObserver is told the result of every processed file.
type FileObserver interface {
	ObserveFile(result string)
}

// Deps are the collaborators a Processor drives. Transcriber and Files may
// be nil.
type Deps struct {
	Engine      engine.Engine
	Locator     locator.Locator
	Writer      brief.Writer
	Transcriber transcriber.Transcriber
	Files       FileObserver
}

type implProcessor struct {
	cfg    *config.Config
	deps   Deps
	logger logger.Logger

	promptOnce sync.Once
	prompt     string

	mu       sync.Mutex
	sessions map[string]engine.Session
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Deps, log logger.Logger) Processor {
	return &implProcessor{
		cfg:      cfg,
		deps:     deps,
		logger:   log,
		sessions: make(map[string]engine.Session),
	}
}
