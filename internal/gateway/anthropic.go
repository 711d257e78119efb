package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/models"
)

// AnthropicOptions configures the Claude provider.
type AnthropicOptions struct {
	APIKey    string
	BaseURL   string
	MaxTokens int64
}

type anthropicProvider struct {
	client    anthropic.Client
	maxTokens int64
}

func newAnthropicProvider(opts AnthropicOptions, tags Tags) *anthropicProvider {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	for key, values := range tagHeaders(tags) {
		reqOpts = append(reqOpts, option.WithHeader(key, values[0]))
	}

	return &anthropicProvider{
		client:    anthropic.NewClient(reqOpts...),
		maxTokens: opts.MaxTokens,
	}
}

func (p *anthropicProvider) acquire(ctx context.Context, spec models.Spec) (Handle, error) {
	if _, err := p.client.Models.Get(ctx, spec.ID, anthropic.ModelGetParams{}); err != nil {
		return nil, fmt.Errorf("get model %s: %w", spec.ID, err)
	}
	return &anthropicHandle{provider: p, spec: spec}, nil
}

type anthropicHandle struct {
	provider *anthropicProvider
	spec     models.Spec
}

func (h *anthropicHandle) Model() models.Spec {
	return h.spec
}

func (h *anthropicHandle) Invoke(ctx context.Context, req Request) (string, error) {
	blocks, err := anthropicBlocks(req.Payload)
	if err != nil {
		return "", Classify(h.spec.ID, err)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(h.spec.ID),
		MaxTokens: h.provider.maxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := h.provider.client.Messages.New(ctx, params)
	if err != nil {
		return "", Classify(h.spec.ID, fmt.Errorf("create message: %w", err))
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(b.Text)
		}
	}
	return out.String(), nil
}

// anthropicBlocks flattens any payload shape into user content blocks.
func anthropicBlocks(p Payload) ([]anthropic.ContentBlockParamUnion, error) {
	var texts []string
	switch p.Shape {
	case ShapeEnvelope:
		if p.Envelope == nil {
			return nil, fmt.Errorf("envelope payload has no contents")
		}
		for _, c := range p.Envelope.Contents {
			for _, ep := range c.Parts {
				if ep.FileData != nil {
					texts = append(texts, describeMedia(&MediaRef{Path: ep.FileData.FilePath, MIMEType: ep.FileData.MIMEType}))
					continue
				}
				texts = append(texts, ep.Text)
			}
		}
	default:
		texts = partTexts(p.Parts)
	}

	if len(texts) == 0 {
		return nil, fmt.Errorf("%s payload has no parts", p.Shape)
	}
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(texts))
	for _, t := range texts {
		blocks = append(blocks, anthropic.NewTextBlock(t))
	}
	return blocks, nil
}

// partTexts renders parts for providers that only accept text.
func partTexts(parts []Part) []string {
	texts := make([]string, 0, len(parts))
	for _, part := range parts {
		if part.IsMedia() {
			texts = append(texts, describeMedia(part.Media))
			continue
		}
		texts = append(texts, part.Text)
	}
	return texts
}
