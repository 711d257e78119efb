package gateway

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/models"
)

// OpenAIOptions configures the provider used for models outside the Gemini
// and Claude families. BaseURL may point at any OpenAI-compatible gateway.
type OpenAIOptions struct {
	APIKey    string
	BaseURL   string
	MaxTokens int64
}

type openaiProvider struct {
	client    openai.Client
	maxTokens int64
}

func newOpenAIProvider(opts OpenAIOptions, tags Tags) *openaiProvider {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	for key, values := range tagHeaders(tags) {
		reqOpts = append(reqOpts, option.WithHeader(key, values[0]))
	}

	return &openaiProvider{
		client:    openai.NewClient(reqOpts...),
		maxTokens: opts.MaxTokens,
	}
}

func (p *openaiProvider) acquire(ctx context.Context, spec models.Spec) (Handle, error) {
	if _, err := p.client.Models.Get(ctx, spec.ID); err != nil {
		return nil, fmt.Errorf("get model %s: %w", spec.ID, err)
	}
	return &openaiHandle{provider: p, spec: spec}, nil
}

type openaiHandle struct {
	provider *openaiProvider
	spec     models.Spec
}

func (h *openaiHandle) Model() models.Spec {
	return h.spec
}

func (h *openaiHandle) Invoke(ctx context.Context, req Request) (string, error) {
	messages, err := openaiMessages(req)
	if err != nil {
		return "", Classify(h.spec.ID, err)
	}

	params := openai.ChatCompletionNewParams{
		Model:    h.spec.ID,
		Messages: messages,
	}
	if h.provider.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(h.provider.maxTokens)
	}

	resp, err := h.provider.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", Classify(h.spec.ID, fmt.Errorf("chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// openaiMessages builds chat messages: the system prompt as a system message,
// a single part as plain user text, and multi-part shapes as content arrays.
func openaiMessages(req Request) ([]openai.ChatCompletionMessageParamUnion, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}

	p := req.Payload
	switch p.Shape {
	case ShapeSingle:
		texts := partTexts(p.Parts)
		if len(texts) != 1 {
			return nil, fmt.Errorf("single payload needs exactly one part, got %d", len(texts))
		}
		messages = append(messages, openai.UserMessage(texts[0]))
	case ShapeArray:
		texts := partTexts(p.Parts)
		if len(texts) == 0 {
			return nil, fmt.Errorf("array payload has no parts")
		}
		messages = append(messages, userPartsMessage(texts))
	case ShapeEnvelope:
		if p.Envelope == nil || len(p.Envelope.Contents) == 0 {
			return nil, fmt.Errorf("envelope payload has no contents")
		}
		for _, c := range p.Envelope.Contents {
			var texts []string
			for _, ep := range c.Parts {
				if ep.FileData != nil {
					texts = append(texts, describeMedia(&MediaRef{Path: ep.FileData.FilePath, MIMEType: ep.FileData.MIMEType}))
					continue
				}
				texts = append(texts, ep.Text)
			}
			messages = append(messages, userPartsMessage(texts))
		}
	}
	return messages, nil
}

func userPartsMessage(texts []string) openai.ChatCompletionMessageParamUnion {
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, openai.ChatCompletionContentPartUnionParam{
			OfText: &openai.ChatCompletionContentPartTextParam{Text: t},
		})
	}
	return openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfArrayOfContentParts: parts,
			},
		},
	}
}
