package processor

import (
	"context"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/locator"
)

// Options tune a single run.
type Options struct {
	// Model replaces the configured primary model when set.
	Model string
	// TranscribeOnly stops after the transcript is saved.
	TranscribeOnly bool
	// Mode is "video" or "transcript"; empty uses the configured mode.
	Mode string
}

// Result describes what a run produced.
type Result struct {
	Source         string
	TranscriptPath string
	// Transcribed is true only when the transcript was created by this run.
	Transcribed bool
	BriefPath   string
	Title       string
}

// Summary counts the outcome of a batch run.
type Summary struct {
	Total int
	// Transcribed counts transcripts created, not reused.
	Transcribed int
	Briefs      int
	Failed      int
}

// Processor turns input videos and transcripts into briefs.
type Processor interface {
	Process(ctx context.Context, videoPath string, opts Options) (Result, error)
	ProcessTranscript(ctx context.Context, transcriptPath string, opts Options) (Result, error)
	// ProcessAll handles every discovered video in order. Per-file failures
	// are logged and counted; they never stop the batch.
	ProcessAll(ctx context.Context, opts Options) (Summary, error)
	Status(ctx context.Context) ([]locator.Entry, error)
}
