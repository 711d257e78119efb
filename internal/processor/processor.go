package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/config"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/engine"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/locator"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/metrics"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/transcriber"
)

// Process runs one video through transcription (when needed) and brief
// generation.
func (p *implProcessor) Process(ctx context.Context, videoPath string, opts Options) (Result, error) {
	res := Result{Source: videoPath}
	if _, err := os.Stat(videoPath); err != nil {
		return res, fmt.Errorf("%w: %s", ErrVideoNotFound, videoPath)
	}

	start := time.Now()
	mode := p.mode(opts)
	p.logger.Info(ctx, "Processing video: %s (mode %s)", filepath.Base(videoPath), mode)

	var transcript string
	if opts.TranscribeOnly || mode == config.ModeTranscript {
		text, path, created, err := p.ensureTranscript(ctx, videoPath)
		if err != nil {
			return res, err
		}
		transcript = text
		res.TranscriptPath = path
		res.Transcribed = created
		if opts.TranscribeOnly {
			return res, nil
		}
	}

	var content engine.Content
	if mode == config.ModeTranscript {
		content = engine.TextContent(transcriptPrompt(locator.VideoName(videoPath), transcript))
	} else {
		content = engine.MediaContent(videoPath, videoDirective)
	}

	b, err := p.generateBrief(ctx, opts.Model, content, locator.VideoName(videoPath))
	if err != nil {
		return res, err
	}
	res.BriefPath = b.Path
	res.Title = b.Title

	p.logger.Info(ctx, "Finished %s in %s", filepath.Base(videoPath), time.Since(start).Round(time.Millisecond))
	return res, nil
}

// ProcessTranscript generates a brief from an already saved transcript.
func (p *implProcessor) ProcessTranscript(ctx context.Context, transcriptPath string, opts Options) (Result, error) {
	res := Result{Source: transcriptPath, TranscriptPath: transcriptPath}

	data, err := os.ReadFile(transcriptPath)
	if errors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("%w: %s", ErrTranscriptNotFound, transcriptPath)
	}
	if err != nil {
		return res, fmt.Errorf("read transcript: %w", err)
	}
	name := locator.VideoName(transcriptPath)
	content := engine.TextContent(transcriptPrompt(name, string(data)))

	b, err := p.generateBrief(ctx, opts.Model, content, name)
	if err != nil {
		return res, err
	}
	res.BriefPath = b.Path
	res.Title = b.Title
	return res, nil
}

func (p *implProcessor) ProcessAll(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary

	videos, err := p.deps.Locator.FindVideos(ctx)
	if err != nil {
		return sum, fmt.Errorf("find videos: %w", err)
	}
	sum.Total = len(videos)
	if len(videos) == 0 {
		p.logger.Info(ctx, "No video files found in %s", p.cfg.Paths.Input)
		return sum, nil
	}

	p.logger.Info(ctx, "Found %d videos to process", len(videos))
	for i, video := range videos {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		p.logger.Info(ctx, "[%d/%d] %s", i+1, len(videos), filepath.Base(video))

		res, err := p.Process(ctx, video, opts)
		if res.Transcribed {
			sum.Transcribed++
		}
		if err != nil {
			p.logger.Error(ctx, "Failed to process %s: %v", video, err)
			sum.Failed++
		} else if res.BriefPath != "" {
			sum.Briefs++
		}
		p.observe(fileResult(res, err))
	}

	p.logger.Info(ctx, "Batch complete: %d videos, %d transcribed, %d briefs, %d failed",
		sum.Total, sum.Transcribed, sum.Briefs, sum.Failed)
	return sum, nil
}

func (p *implProcessor) Status(ctx context.Context) ([]locator.Entry, error) {
	return p.deps.Locator.Status(ctx)
}

// ensureTranscript reuses a saved transcript or creates one. created is
// false when an existing file was reused.
func (p *implProcessor) ensureTranscript(ctx context.Context, videoPath string) (text, path string, created bool, err error) {
	path = p.deps.Locator.TranscriptPath(videoPath)
	if data, err := os.ReadFile(path); err == nil {
		p.logger.Info(ctx, "Transcript already exists at: %s", path)
		return string(data), path, false, nil
	}

	if p.deps.Transcriber == nil {
		return "", "", false, ErrNoTranscriber
	}
	segments, err := p.deps.Transcriber.Transcribe(ctx, videoPath)
	if err != nil {
		return "", "", false, fmt.Errorf("transcribe %s: %w", filepath.Base(videoPath), err)
	}
	text = transcriber.Join(segments)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", "", false, fmt.Errorf("create transcript dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", "", false, fmt.Errorf("save transcript: %w", err)
	}
	p.logger.Info(ctx, "Transcript saved to: %s", path)
	return text, path, true, nil
}

func (p *implProcessor) mode(opts Options) string {
	if opts.Mode != "" {
		return opts.Mode
	}
	return p.cfg.Brief.Mode
}

// fileResult picks the single metrics result for one processed file.
func fileResult(res Result, err error) string {
	switch {
	case err != nil:
		return metrics.ResultFailed
	case res.BriefPath != "":
		return metrics.ResultBrief
	case res.Transcribed:
		return metrics.ResultTranscribed
	}
	return metrics.ResultReused
}

func (p *implProcessor) observe(result string) {
	if p.deps.Files != nil {
		p.deps.Files.ObserveFile(result)
	}
}

func transcriptPrompt(name, transcript string) string {
	return fmt.Sprintf(transcriptTemplate, name, strings.TrimSpace(transcript))
}
