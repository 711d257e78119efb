package transcriber

import (
	"fmt"
	"path/filepath"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/logger"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/pkg/executor"
)

// Options is passed through to whisper.cpp unchanged.
type Options struct {
	FFmpegPath string
	BinaryPath string
	ModelPath  string
	Language   string
	Prompt     string
	Threads    int
	// Device "cpu" disables GPU offload; anything else leaves whisper's default.
	Device    string
	ExtraArgs []string
	// TempDir holds intermediate audio and subtitle files. Empty uses the
	// system temp directory.
	TempDir string
}

type implTranscriber struct {
	opts     Options
	executor executor.Executor
	logger   logger.Logger
}

// New creates a whisper.cpp backed Transcriber.
func New(opts Options, exec executor.Executor, log logger.Logger) Transcriber {
	opts = withDefaults(opts)
	return &implTranscriber{
		opts:     opts,
		executor: exec,
		logger:   log,
	}
}

// ResolveTools checks that ffmpeg and the whisper binary can be executed and
// returns opts with both set to absolute paths. Whisper runs inside its work
// directory, where a relative binary path would not resolve.
func ResolveTools(opts Options, exec executor.Executor) (Options, error) {
	opts = withDefaults(opts)
	for _, name := range []*string{&opts.FFmpegPath, &opts.BinaryPath} {
		path, err := exec.LookPath(*name)
		if err != nil {
			return opts, fmt.Errorf("resolve tools: %w", err)
		}
		if path, err = filepath.Abs(path); err != nil {
			return opts, fmt.Errorf("resolve tools: %w", err)
		}
		*name = path
	}
	return opts, nil
}

func withDefaults(opts Options) Options {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	return opts
}
