package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// OpenAIProvider implements the Provider interface for OpenAI models.
type OpenAIProvider struct {
	client openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{client: client}, nil
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// SupportsTools reports tool support.
func (p *OpenAIProvider) SupportsTools() bool {
	return true
}

// Generate sends messages to OpenAI and returns the completion.
func (p *OpenAIProvider) Generate(ctx context.Context, params GenerateParams) (*Completion, error) {
	req := p.buildParams(params)

	resp, err := p.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return &Completion{
		Text:  resp.Choices[0].Message.Content,
		Model: params.Model,
		Usage: schema.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// GenerateStream streams the completion from OpenAI.
func (p *OpenAIProvider) GenerateStream(ctx context.Context, params GenerateParams, onDelta func(string)) (*Completion, error) {
	req := p.buildParams(params)
	req.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, req)
	acc := openai.ChatCompletionAccumulator{}

	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if onDelta != nil {
				onDelta(chunk.Choices[0].Delta.Content)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("openai stream error: %w", err)
	}

	var content string
	if len(acc.Choices) > 0 {
		content = acc.Choices[0].Message.Content
	}

	return &Completion{
		Text:  content,
		Model: params.Model,
		Usage: schema.Usage{
			PromptTokens:     int(acc.Usage.PromptTokens),
			CompletionTokens: int(acc.Usage.CompletionTokens),
			TotalTokens:      int(acc.Usage.TotalTokens),
		},
	}, nil
}

func (p *OpenAIProvider) buildParams(params GenerateParams) openai.ChatCompletionNewParams {
	req := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(params.Model),
		Messages: convertOpenAIMessages(params.Messages),
	}
	if params.MaxTokens > 0 {
		req.MaxCompletionTokens = openai.Int(int64(params.MaxTokens))
	}
	if params.Temperature > 0 {
		req.Temperature = openai.Float(params.Temperature)
	}
	for _, tool := range params.Tools {
		req.Tools = append(req.Tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters: openai.FunctionParameters{
					"type":       "object",
					"properties": tool.Parameters,
				},
			},
		})
	}
	return req
}

func convertOpenAIMessages(messages []schema.Message) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case schema.RoleSystem:
			converted = append(converted, openai.SystemMessage(msg.Content))
		case schema.RoleAssistant:
			converted = append(converted, openai.AssistantMessage(msg.Content))
		default:
			converted = append(converted, openai.UserMessage(msg.Content))
		}
	}
	return converted
}
