package provider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// AnthropicProvider implements the Provider interface for Claude models.
type AnthropicProvider struct {
	client anthropic.Client
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(apiKey string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicProvider{client: client}, nil
}

// Name returns the provider identifier.
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// SupportsTools reports tool support.
func (p *AnthropicProvider) SupportsTools() bool {
	return true
}

// Generate sends messages to Claude and returns the completion.
func (p *AnthropicProvider) Generate(ctx context.Context, params GenerateParams) (*Completion, error) {
	req := p.buildParams(params)

	resp, err := p.client.Messages.New(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &Completion{
		Text:  content,
		Model: params.Model,
		Usage: schema.Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}, nil
}

// GenerateStream streams the completion from Claude.
func (p *AnthropicProvider) GenerateStream(ctx context.Context, params GenerateParams, onDelta func(string)) (*Completion, error) {
	req := p.buildParams(params)

	stream := p.client.Messages.NewStreaming(ctx, req)
	message := anthropic.Message{}
	var content string

	for stream.Next() {
		event := stream.Current()
		if err := message.Accumulate(event); err != nil {
			return nil, fmt.Errorf("anthropic stream accumulate: %w", err)
		}

		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
				content += delta.Text
				if onDelta != nil {
					onDelta(delta.Text)
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("anthropic stream error: %w", err)
	}

	return &Completion{
		Text:  content,
		Model: params.Model,
		Usage: schema.Usage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
			TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		},
	}, nil
}

func (p *AnthropicProvider) buildParams(params GenerateParams) anthropic.MessageNewParams {
	system, rest := splitSystem(params.Messages)

	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	req := anthropic.MessageNewParams{
		Model:     anthropic.Model(params.Model),
		MaxTokens: int64(maxTokens),
		Messages:  convertAnthropicMessages(rest),
	}
	if system != "" {
		req.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if params.Temperature > 0 {
		req.Temperature = anthropic.Float(params.Temperature)
	}
	for _, tool := range params.Tools {
		req.Tools = append(req.Tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic.String(tool.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: tool.Parameters,
				},
			},
		})
	}
	return req
}

func convertAnthropicMessages(messages []schema.Message) []anthropic.MessageParam {
	converted := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case schema.RoleAssistant:
			converted = append(converted, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			converted = append(converted, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return converted
}
