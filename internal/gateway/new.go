package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/logger"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/models"
)

// ErrProviderNotConfigured is returned when no credentials exist for a family.
var ErrProviderNotConfigured = errors.New("provider not configured")

// Options holds the credentials for every provider family.
type Options struct {
	Gemini    GeminiOptions
	Anthropic AnthropicOptions
	OpenAI    OpenAIOptions
}

type provider interface {
	acquire(ctx context.Context, spec models.Spec) (Handle, error)
}

type implGateway struct {
	opts   Options
	logger logger.Logger

	mu        sync.Mutex
	providers map[models.Family]provider
}

// New creates a Gateway that routes each model to the SDK for its family.
// Provider clients are created on first use.
func New(opts Options, log logger.Logger) Gateway {
	return &implGateway{
		opts:      opts,
		logger:    log,
		providers: make(map[models.Family]provider),
	}
}

// Acquire probes the model and returns a handle. Every failure is a
// KindLoadFailure.
func (g *implGateway) Acquire(ctx context.Context, spec models.Spec, tags Tags) (Handle, error) {
	p, err := g.providerFor(ctx, spec.Family, tags)
	if err != nil {
		return nil, NewError(KindLoadFailure, spec.ID, err)
	}

	h, err := p.acquire(ctx, spec)
	if err != nil {
		return nil, NewError(KindLoadFailure, spec.ID, err)
	}
	return h, nil
}

func (g *implGateway) providerFor(ctx context.Context, family models.Family, tags Tags) (provider, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p, ok := g.providers[family]; ok {
		return p, nil
	}

	var p provider
	switch family {
	case models.FamilyGemini:
		o := g.opts.Gemini
		if o.APIKey == "" && !o.Vertex {
			return nil, fmt.Errorf("gemini: %w", ErrProviderNotConfigured)
		}
		gp, err := newGeminiProvider(ctx, o, tags, g.logger)
		if err != nil {
			return nil, err
		}
		p = gp
	case models.FamilyClaude:
		o := g.opts.Anthropic
		if o.APIKey == "" {
			return nil, fmt.Errorf("claude: %w", ErrProviderNotConfigured)
		}
		p = newAnthropicProvider(o, tags)
	default:
		o := g.opts.OpenAI
		if o.APIKey == "" && o.BaseURL == "" {
			return nil, fmt.Errorf("generic: %w", ErrProviderNotConfigured)
		}
		p = newOpenAIProvider(o, tags)
	}

	g.providers[family] = p
	g.logger.Debug(ctx, "Created %s provider client", family)
	return p, nil
}
