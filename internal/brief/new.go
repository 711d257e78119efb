package brief

import (
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/logger"
)

const defaultName = "brief"

// Options configures where and how briefs are written.
type Options struct {
	Dir       string
	Extension string
	// Overwrite replaces an existing brief instead of picking a new name.
	Overwrite bool
	// Docx also renders a .docx next to each brief.
	Docx bool
}

type implWriter struct {
	opts   Options
	logger logger.Logger
}

// New creates a Writer.
func New(opts Options, log logger.Logger) Writer {
	if opts.Extension == "" {
		opts.Extension = ".md"
	}
	return &implWriter{opts: opts, logger: log}
}
