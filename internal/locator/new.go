package locator

import (
	"strings"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/logger"
)

// Options holds the directories and extensions the locator works with.
type Options struct {
	InputDir            string
	TranscriptDir       string
	BriefDir            string
	VideoExtensions     []string
	TranscriptExtension string
	BriefExtension      string
}

type implLocator struct {
	opts       Options
	extensions map[string]bool
	logger     logger.Logger
}

// New creates a Locator. Directory options may start with "~".
func New(opts Options, log logger.Logger) Locator {
	opts.InputDir = ExpandHome(opts.InputDir)
	opts.TranscriptDir = ExpandHome(opts.TranscriptDir)
	opts.BriefDir = ExpandHome(opts.BriefDir)

	exts := make(map[string]bool, len(opts.VideoExtensions))
	for _, ext := range opts.VideoExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = true
	}

	return &implLocator{opts: opts, extensions: exts, logger: log}
}
