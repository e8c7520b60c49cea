package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/provider"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/retrieval"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

const (
	// relevance score assumed when no passages were retrieved
	neutralRelevance = 0.5

	searchThreshold   = 0.25
	snippetLength     = 160
	defaultMaxResults = 5
)

// base carries the shared execution machinery embedded by concrete agents.
type base struct {
	agentType  Type
	capability Capability
	provider   provider.Provider
	retriever  retrieval.Retriever
}

func (b *base) Type() Type {
	return b.agentType
}

func (b *base) Capability() Capability {
	return b.capability
}

func (b *base) Validate(req *schema.Request) error {
	return req.Validate()
}

// run performs the shared execution path: retrieve context passages, build
// the message sequence, call the completion provider, score confidence.
func (b *base) run(ctx context.Context, req *schema.Request, instructions string, tools []provider.Tool) (*schema.Response, error) {
	start := time.Now()

	passages, err := b.retrieve(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s agent: retrieve context: %w", b.agentType, err)
	}

	params := b.buildParams(req, instructions, passages, tools)
	completion, err := b.provider.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s agent: %w", b.agentType, err)
	}

	return b.buildResponse(completion, passages, time.Since(start)), nil
}

// runStream is the streaming counterpart of run.
func (b *base) runStream(ctx context.Context, req *schema.Request, instructions string, tools []provider.Tool, onChunk func(string)) (*schema.Response, error) {
	start := time.Now()

	passages, err := b.retrieve(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s agent: retrieve context: %w", b.agentType, err)
	}

	params := b.buildParams(req, instructions, passages, tools)
	completion, err := b.provider.GenerateStream(ctx, params, onChunk)
	if err != nil {
		return nil, fmt.Errorf("%s agent: %w", b.agentType, err)
	}

	return b.buildResponse(completion, passages, time.Since(start)), nil
}

func (b *base) retrieve(ctx context.Context, req *schema.Request) ([]retrieval.Passage, error) {
	if b.retriever == nil || req.Context == nil || len(req.Context.Sources) == 0 {
		return nil, nil
	}

	sources := retrieval.FilterSources(req.Context.Sources)
	if len(sources) == 0 {
		return nil, nil
	}

	maxResults := req.Context.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	return b.retriever.Search(ctx, req.Query, retrieval.SearchOptions{
		Sources:    sources,
		MaxResults: maxResults,
		Threshold:  searchThreshold,
	})
}

func (b *base) buildParams(req *schema.Request, instructions string, passages []retrieval.Passage, tools []provider.Tool) provider.GenerateParams {
	messages := make([]schema.Message, 0, len(req.History)+3)
	messages = append(messages, schema.Message{Role: schema.RoleSystem, Content: instructions})
	if block := contextBlock(passages); block != "" {
		messages = append(messages, schema.Message{Role: schema.RoleSystem, Content: block})
	}
	messages = append(messages, req.History...)
	messages = append(messages, schema.Message{Role: schema.RoleUser, Content: req.Query})

	params := provider.GenerateParams{
		Messages:    messages,
		Tools:       tools,
		MaxTokens:   b.capability.DefaultMaxTokens,
		Temperature: b.capability.DefaultTemperature,
	}
	if req.Options != nil {
		params.Model = req.Options.Model
		if req.Options.MaxTokens > 0 {
			params.MaxTokens = req.Options.MaxTokens
		}
		if req.Options.Temperature > 0 {
			params.Temperature = req.Options.Temperature
		}
	}
	return params
}

func (b *base) buildResponse(completion *provider.Completion, passages []retrieval.Passage, elapsed time.Duration) *schema.Response {
	summaries := make([]schema.SourceSummary, 0, len(passages))
	for _, p := range passages {
		summaries = append(summaries, schema.SourceSummary{
			Source:  p.Source,
			Snippet: snippet(p.Content),
			Score:   p.Score,
		})
	}

	return &schema.Response{
		Content:            completion.Text,
		Agent:              string(b.agentType),
		StreamingSupported: b.capability.SupportsStreaming,
		Metadata: schema.Metadata{
			Model:      completion.Model,
			Usage:      completion.Usage,
			Elapsed:    elapsed,
			Sources:    summaries,
			Confidence: confidence(passages, len(completion.Text)),
		},
	}
}

// confidence blends retrieval relevance with response length:
// 0.6 * mean(passage scores) + 0.4 * min(length/500, 1).
func confidence(passages []retrieval.Passage, responseLength int) float64 {
	relevance := neutralRelevance
	if len(passages) > 0 {
		var sum float64
		for _, p := range passages {
			sum += p.Score
		}
		relevance = sum / float64(len(passages))
	}

	lengthScore := float64(responseLength) / 500
	if lengthScore > 1 {
		lengthScore = 1
	}
	return 0.6*relevance + 0.4*lengthScore
}

func contextBlock(passages []retrieval.Passage) string {
	if len(passages) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Relevant context passages:\n")
	for i, p := range passages {
		sb.WriteString(fmt.Sprintf("\n[%d] (%s) %s\n", i+1, p.Source, p.Content))
	}
	return sb.String()
}

func snippet(content string) string {
	if len(content) <= snippetLength {
		return content
	}
	return content[:snippetLength]
}
