package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/logger"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/models"
)

// GeminiOptions configures the genai-backed provider.
type GeminiOptions struct {
	APIKey       string
	Vertex       bool
	Project      string
	Location     string
	BaseURL      string
	PollInterval time.Duration
}

type geminiProvider struct {
	client       *genai.Client
	vertex       bool
	pollInterval time.Duration
	logger       logger.Logger
}

func newGeminiProvider(ctx context.Context, opts GeminiOptions, tags Tags, log logger.Logger) (*geminiProvider, error) {
	cc := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{
			BaseURL: opts.BaseURL,
			Headers: tagHeaders(tags),
		},
	}
	if opts.Vertex {
		cc.Backend = genai.BackendVertexAI
		cc.Project = opts.Project
		cc.Location = opts.Location
	} else {
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = opts.APIKey
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiProvider{
		client:       client,
		vertex:       opts.Vertex,
		pollInterval: opts.PollInterval,
		logger:       log,
	}, nil
}

func (p *geminiProvider) acquire(ctx context.Context, spec models.Spec) (Handle, error) {
	if _, err := p.client.Models.Get(ctx, spec.ID, nil); err != nil {
		return nil, fmt.Errorf("get model %s: %w", spec.ID, err)
	}
	return &geminiHandle{
		provider: p,
		spec:     spec,
		uploads:  make(map[string]*genai.Part),
	}, nil
}

type geminiHandle struct {
	provider *geminiProvider
	spec     models.Spec

	mu      sync.Mutex
	uploads map[string]*genai.Part
}

func (h *geminiHandle) Model() models.Spec {
	return h.spec
}

func (h *geminiHandle) Invoke(ctx context.Context, req Request) (string, error) {
	contents, err := buildContents(ctx, req.Payload, h.mediaPart)
	if err != nil {
		return "", Classify(h.spec.ID, err)
	}

	var config *genai.GenerateContentConfig
	if req.System != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		}
	}

	resp, err := h.provider.client.Models.GenerateContent(ctx, h.spec.ID, contents, config)
	if err != nil {
		return "", Classify(h.spec.ID, fmt.Errorf("generate content: %w", err))
	}
	return resp.Text(), nil
}

// mediaPart uploads a local file once per handle and returns a URI part.
func (h *geminiHandle) mediaPart(ctx context.Context, m *MediaRef) (*genai.Part, error) {
	if isRemoteURI(m.Path) {
		return genai.NewPartFromURI(m.Path, m.MIMEType), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if part, ok := h.uploads[m.Path]; ok {
		return part, nil
	}
	if h.provider.vertex {
		return nil, fmt.Errorf("vertex backend needs a gs:// media reference, got local file %s", m.Path)
	}

	h.provider.logger.Info(ctx, "Uploading media to Gemini: %s", m.Path)
	file, err := h.provider.client.Files.UploadFromPath(ctx, m.Path, &genai.UploadFileConfig{
		MIMEType: m.MIMEType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", m.Path, err)
	}

	file, err = h.waitActive(ctx, file)
	if err != nil {
		return nil, err
	}

	part := genai.NewPartFromURI(file.URI, file.MIMEType)
	h.uploads[m.Path] = part
	return part, nil
}

// waitActive polls until the uploaded file leaves the PROCESSING state.
func (h *geminiHandle) waitActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	name := file.Name
	for file.State == genai.FileStateProcessing {
		h.provider.logger.Debug(ctx, "Waiting for %s to finish processing", name)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(h.provider.pollInterval):
		}

		var err error
		file, err = h.provider.client.Files.Get(ctx, name, nil)
		if err != nil {
			return nil, fmt.Errorf("get file %s: %w", name, err)
		}
	}
	if file.State == genai.FileStateFailed {
		return nil, fmt.Errorf("file %s failed processing", file.Name)
	}
	return file, nil
}

type mediaResolver func(ctx context.Context, m *MediaRef) (*genai.Part, error)

// buildContents maps a payload onto genai contents. Single and array shapes
// become one user turn; the envelope is mapped role by role, part by part.
func buildContents(ctx context.Context, p Payload, resolve mediaResolver) ([]*genai.Content, error) {
	if p.Shape == ShapeEnvelope {
		if p.Envelope == nil || len(p.Envelope.Contents) == 0 {
			return nil, fmt.Errorf("envelope payload has no contents")
		}
		contents := make([]*genai.Content, 0, len(p.Envelope.Contents))
		for _, c := range p.Envelope.Contents {
			parts := make([]*genai.Part, 0, len(c.Parts))
			for _, ep := range c.Parts {
				if ep.FileData != nil {
					ref := &MediaRef{Path: ep.FileData.FilePath, MIMEType: ep.FileData.MIMEType}
					if ref.MIMEType == "" {
						ref.MIMEType = MIMETypeOf(ref.Path)
					}
					part, err := resolve(ctx, ref)
					if err != nil {
						return nil, err
					}
					parts = append(parts, part)
					continue
				}
				parts = append(parts, genai.NewPartFromText(ep.Text))
			}
			role := genai.Role(c.Role)
			if role == "" {
				role = genai.RoleUser
			}
			contents = append(contents, genai.NewContentFromParts(parts, role))
		}
		return contents, nil
	}

	if len(p.Parts) == 0 {
		return nil, fmt.Errorf("%s payload has no parts", p.Shape)
	}
	parts := make([]*genai.Part, 0, len(p.Parts))
	for _, part := range p.Parts {
		if part.IsMedia() {
			gp, err := resolve(ctx, part.Media)
			if err != nil {
				return nil, err
			}
			parts = append(parts, gp)
			continue
		}
		parts = append(parts, genai.NewPartFromText(part.Text))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil
}

func isRemoteURI(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "https://")
}

func tagHeaders(tags Tags) http.Header {
	h := make(http.Header)
	if tags.Team != "" {
		h.Set("X-Team", tags.Team)
	}
	if tags.UseCase != "" {
		h.Set("X-Use-Case", tags.UseCase)
	}
	return h
}
