package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/brief"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/config"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/engine"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/gateway"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/locator"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/logger"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/metrics"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/processor"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/transcriber"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/pkg/executor"
)

// app holds the wired components for one command invocation.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	locator locator.Locator
	proc    processor.Processor
	metrics *metrics.Collector
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	collector := metrics.New()
	gw := gateway.New(gatewayOptions(cfg), log)
	eng := engine.New(gw, log,
		engine.WithMaxRetries(cfg.Gateway.MaxRetries),
		engine.WithTags(gateway.Tags{Team: cfg.Gateway.Team, UseCase: cfg.Gateway.UseCase}),
		engine.WithObserver(collector),
	)

	loc := locator.New(locator.Options{
		InputDir:            cfg.Paths.Input,
		TranscriptDir:       cfg.Paths.Transcripts,
		BriefDir:            cfg.Paths.Briefs,
		VideoExtensions:     cfg.Files.VideoExtensions,
		TranscriptExtension: cfg.Files.TranscriptExtension,
		BriefExtension:      cfg.Files.BriefExtension,
	}, log)

	deps := processor.Deps{
		Engine:  eng,
		Locator: loc,
		Writer: brief.New(brief.Options{
			Dir:       locator.ExpandHome(cfg.Paths.Briefs),
			Extension: cfg.Files.BriefExtension,
			Overwrite: cfg.Brief.Overwrite,
			Docx:      cfg.Brief.Docx,
		}, log),
		Files: collector,
	}
	if cfg.Whisper.BinaryPath != "" && cfg.Whisper.ModelPath != "" {
		topts := transcriber.Options{
			BinaryPath: locator.ExpandHome(cfg.Whisper.BinaryPath),
			ModelPath:  locator.ExpandHome(cfg.Whisper.ModelPath),
			Language:   cfg.Whisper.Language,
			Prompt:     cfg.Whisper.Prompt,
			Threads:    cfg.Whisper.Threads,
			Device:     cfg.Whisper.Device,
			ExtraArgs:  cfg.Whisper.ExtraArgs,
			TempDir:    cfg.Whisper.TempDir,
		}
		exec := executor.New()
		resolved, err := transcriber.ResolveTools(topts, exec)
		if err != nil {
			log.Warn(ctx, "Transcription disabled: %v", err)
		} else {
			deps.Transcriber = transcriber.New(resolved, exec, log)
		}
	} else {
		log.Debug(ctx, "Whisper not configured, transcription disabled")
	}

	return &app{
		cfg:     cfg,
		log:     log,
		locator: loc,
		proc:    processor.New(cfg, deps, log),
		metrics: collector,
	}, nil
}

func gatewayOptions(cfg *config.Config) gateway.Options {
	g := cfg.Gateway
	return gateway.Options{
		Gemini: gateway.GeminiOptions{
			APIKey:       g.Gemini.APIKey,
			Vertex:       strings.EqualFold(g.Gemini.Backend, "vertex"),
			Project:      g.Gemini.Project,
			Location:     g.Gemini.Location,
			BaseURL:      g.Gemini.BaseURL,
			PollInterval: g.Gemini.PollInterval,
		},
		Anthropic: gateway.AnthropicOptions{
			APIKey:    g.Anthropic.APIKey,
			BaseURL:   g.Anthropic.BaseURL,
			MaxTokens: g.Anthropic.MaxTokens,
		},
		OpenAI: gateway.OpenAIOptions{
			APIKey:    g.OpenAI.APIKey,
			BaseURL:   g.OpenAI.BaseURL,
			MaxTokens: g.OpenAI.MaxTokens,
		},
	}
}

// writeMetrics dumps the textfile when one is configured.
func (a *app) writeMetrics(ctx context.Context) {
	if a.cfg.Metrics.Textfile == "" {
		return
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		a.log.Warn(ctx, "Failed to write metrics: %v", err)
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Transcripts,
		cfg.Paths.Briefs,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(locator.ExpandHome(dir), 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
