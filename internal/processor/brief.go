package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/brief"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/engine"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/locator"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/models"
)

const (
	defaultSystemPrompt = "You are a professional content brief creator. Analyze the video and provide a comprehensive brief."

	videoDirective = "Please analyze the following video and create a comprehensive brief according to the instructions above. The video will be provided as the next input."

	transcriptTemplate = "Please analyze the following video transcript and create a content brief:\n\n# TRANSCRIPT: %s\n%s"
)

// generateBrief runs the engine on the session for model and saves the text.
func (p *implProcessor) generateBrief(ctx context.Context, model string, content engine.Content, fallbackName string) (brief.Brief, error) {
	text, err := p.generate(ctx, model, content)
	if err != nil {
		return brief.Brief{}, fmt.Errorf("generate brief: %w", err)
	}

	b, err := p.deps.Writer.Save(ctx, text, fallbackName)
	if err != nil {
		return brief.Brief{}, fmt.Errorf("save brief: %w", err)
	}
	return b, nil
}

// generate keeps one engine session per primary model, so the working model
// found by the first call is reused for the rest of the processor's life.
func (p *implProcessor) generate(ctx context.Context, model string, content engine.Content) (string, error) {
	if model == "" {
		model = p.cfg.Gateway.DefaultModel
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	sess, ok := p.sessions[model]
	if !ok {
		list := models.BuildPriorityList(model, p.cfg.Gateway.FallbackModels, p.cfg.Gateway.Families)
		sess = engine.NewSession(p.systemPrompt(ctx), list)
		p.logger.Debug(ctx, "Session %s candidates: %v", sess.ID, list.IDs())
	}

	text, sess, err := p.deps.Engine.Generate(ctx, sess, content)
	p.sessions[model] = sess
	if errors.Is(err, engine.ErrInputNotFound) {
		return "", fmt.Errorf("%w: %w", ErrVideoNotFound, err)
	}
	return text, err
}

// systemPrompt reads the prompt file once. A missing file falls back to a
// built-in prompt.
func (p *implProcessor) systemPrompt(ctx context.Context) string {
	p.promptOnce.Do(func() {
		path := locator.ExpandHome(p.cfg.Paths.SystemPrompt)
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			p.logger.Warn(ctx, "System prompt %s not found, using default", path)
			p.prompt = defaultSystemPrompt
		case err != nil:
			p.logger.Warn(ctx, "Failed to read system prompt %s: %v, using default", path, err)
			p.prompt = defaultSystemPrompt
		case strings.TrimSpace(string(data)) == "":
			p.logger.Warn(ctx, "System prompt %s is empty, using default", path)
			p.prompt = defaultSystemPrompt
		default:
			p.prompt = string(data)
		}
	})
	return p.prompt
}
