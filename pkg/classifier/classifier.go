// Package classifier scores a request's intent and complexity. Intent uses
// one completion call normalized against a keyword table and fails open to
// question answering; complexity is a pure local heuristic.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/provider"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// Classification is the combined assessment of one request.
type Classification struct {
	Intent     Intent     `json:"intent"`
	Complexity Complexity `json:"complexity"`
}

// Classifier determines intent and complexity for incoming requests.
type Classifier struct {
	provider provider.Provider
	model    string
	keywords []intentKeyword
	logger   *zap.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the classifier logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// WithKeywordTable replaces the intent normalization table, typically from
// a YAML override file.
func WithKeywordTable(table []IntentKeyword) Option {
	return func(c *Classifier) {
		if len(table) == 0 {
			return
		}
		c.keywords = make([]intentKeyword, 0, len(table))
		for _, entry := range table {
			c.keywords = append(c.keywords, intentKeyword{
				fragment: strings.ToLower(entry.Fragment),
				intent:   entry.Intent,
			})
		}
	}
}

// New creates a classifier backed by the given completion provider.
func New(p provider.Provider, model string, opts ...Option) *Classifier {
	c := &Classifier{
		provider: p,
		model:    model,
		keywords: intentKeywords,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify assesses a request. Intent classification failures never
// propagate: the result falls back to question answering so routing always
// proceeds. Results are computed fresh per request, never cached.
func (c *Classifier) Classify(ctx context.Context, req *schema.Request) Classification {
	result := Classification{
		Intent:     c.classifyIntent(ctx, req),
		Complexity: AnalyzeComplexity(req.Query),
	}

	if req.Context != nil && req.Context.ComplexityHint != "" {
		switch Level(strings.ToLower(req.Context.ComplexityHint)) {
		case LevelSimple, LevelModerate, LevelComplex:
			result.Complexity.Level = Level(strings.ToLower(req.Context.ComplexityHint))
		}
	}
	return result
}

func (c *Classifier) classifyIntent(ctx context.Context, req *schema.Request) Intent {
	if req.Context != nil && req.Context.IntentHint != "" {
		if intent, ok := ParseIntent(req.Context.IntentHint); ok {
			return intent
		}
	}

	if c.provider == nil {
		return IntentQuestionAnswering
	}

	completion, err := c.provider.Generate(ctx, provider.GenerateParams{
		Model: c.model,
		Messages: []schema.Message{
			{Role: schema.RoleSystem, Content: intentInstruction()},
			{Role: schema.RoleUser, Content: req.Query},
		},
		MaxTokens: 16,
	})
	if err != nil {
		c.logger.Debug("intent classification failed, defaulting to question_answering",
			zap.Error(err))
		return IntentQuestionAnswering
	}

	return c.normalize(completion.Text)
}

func (c *Classifier) normalize(label string) Intent {
	lowered := strings.ToLower(label)
	for _, kw := range c.keywords {
		if strings.Contains(lowered, kw.fragment) {
			return kw.intent
		}
	}
	return IntentQuestionAnswering
}

func intentInstruction() string {
	var sb strings.Builder
	sb.WriteString("Classify the user's request into exactly one of these categories:\n")
	for _, intent := range Intents {
		sb.WriteString(fmt.Sprintf("- %s\n", intent))
	}
	sb.WriteString("\nReply with the category name only.")
	return sb.String()
}
