package provider

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// GoogleProvider implements the Provider interface for Gemini models.
// Tool definitions are not mapped for this backend.
type GoogleProvider struct {
	client *genai.Client
}

// NewGoogleProvider creates a new Google Gemini provider.
func NewGoogleProvider(apiKey string) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	return &GoogleProvider{client: client}, nil
}

// Name returns the provider identifier.
func (p *GoogleProvider) Name() string {
	return "google"
}

// SupportsTools reports tool support.
func (p *GoogleProvider) SupportsTools() bool {
	return false
}

// Generate sends messages to Gemini and returns the completion.
func (p *GoogleProvider) Generate(ctx context.Context, params GenerateParams) (*Completion, error) {
	contents, cfg := p.buildParams(params)

	resp, err := p.client.Models.GenerateContent(ctx, params.Model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("google API error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("google returned no candidates")
	}

	var content string
	if resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				content += part.Text
			}
		}
	}

	return &Completion{
		Text:  content,
		Model: params.Model,
		Usage: googleUsage(resp.UsageMetadata),
	}, nil
}

// GenerateStream streams the completion from Gemini.
func (p *GoogleProvider) GenerateStream(ctx context.Context, params GenerateParams, onDelta func(string)) (*Completion, error) {
	contents, cfg := p.buildParams(params)

	var content string
	var usage schema.Usage

	for resp, err := range p.client.Models.GenerateContentStream(ctx, params.Model, contents, cfg) {
		if err != nil {
			return nil, fmt.Errorf("google stream error: %w", err)
		}
		if resp == nil || len(resp.Candidates) == 0 {
			continue
		}
		if resp.Candidates[0].Content != nil {
			for _, part := range resp.Candidates[0].Content.Parts {
				if part.Text != "" {
					content += part.Text
					if onDelta != nil {
						onDelta(part.Text)
					}
				}
			}
		}
		if resp.UsageMetadata != nil {
			usage = googleUsage(resp.UsageMetadata)
		}
	}

	return &Completion{
		Text:  content,
		Model: params.Model,
		Usage: usage,
	}, nil
}

func (p *GoogleProvider) buildParams(params GenerateParams) ([]*genai.Content, *genai.GenerateContentConfig) {
	system, rest := splitSystem(params.Messages)

	contents := make([]*genai.Content, 0, len(rest))
	for _, msg := range rest {
		role := genai.RoleUser
		if msg.Role == schema.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.Role(role)))
	}

	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if params.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(params.MaxTokens)
	}
	if params.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(params.Temperature))
	}
	return contents, cfg
}

func googleUsage(meta *genai.GenerateContentResponseUsageMetadata) schema.Usage {
	if meta == nil {
		return schema.Usage{}
	}
	return schema.Usage{
		PromptTokens:     int(meta.PromptTokenCount),
		CompletionTokens: int(meta.CandidatesTokenCount),
		TotalTokens:      int(meta.TotalTokenCount),
	}
}
