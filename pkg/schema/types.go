// Package schema defines the request/response data model shared by the
// routing core. All values are request-scoped: a Request is never mutated
// after validation, and every Response is built fresh per call.
package schema

import (
	"fmt"
	"strings"
	"time"
)

// Role tags a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one prior conversation turn. Insertion order is significant.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// RequestContext carries retrieval hints attached to a request.
type RequestContext struct {
	Sources          []string `json:"sources,omitempty"`
	MaxResults       int      `json:"max_results,omitempty"`
	RequireCitations bool     `json:"require_citations,omitempty"`
	IntentHint       string   `json:"intent_hint,omitempty"`
	ComplexityHint   string   `json:"complexity_hint,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
}

// RequestOptions carries per-request generation overrides.
type RequestOptions struct {
	Model       string  `json:"model,omitempty"`
	Stream      bool    `json:"stream,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	UseTools    bool    `json:"use_tools,omitempty"`
}

// Request is the immutable input to one routing call.
type Request struct {
	Query   string          `json:"query"`
	History []Message       `json:"history,omitempty"`
	Context *RequestContext `json:"context,omitempty"`
	Options *RequestOptions `json:"options,omitempty"`
}

// Validate rejects malformed requests before any agent is invoked.
func (r *Request) Validate() error {
	if r == nil {
		return fmt.Errorf("request is required")
	}
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("request query must not be empty")
	}
	for i, msg := range r.History {
		switch msg.Role {
		case RoleUser, RoleAssistant, RoleSystem:
		default:
			return fmt.Errorf("history[%d]: unknown role %q", i, msg.Role)
		}
	}
	if r.Options != nil {
		if r.Options.MaxTokens < 0 {
			return fmt.Errorf("options max_tokens must not be negative")
		}
		if r.Options.Temperature < 0 || r.Options.Temperature > 2 {
			return fmt.Errorf("options temperature must be in [0,2]")
		}
	}
	return nil
}

// Enhance returns a copy of the request with routing-derived sources,
// complexity and default model merged in. The receiver is left untouched.
func (r *Request) Enhance(sources []string, complexity string, defaultModel string) *Request {
	enhanced := &Request{
		Query:   r.Query,
		History: append([]Message(nil), r.History...),
	}

	ctx := RequestContext{}
	if r.Context != nil {
		ctx = *r.Context
		ctx.Sources = append([]string(nil), r.Context.Sources...)
		ctx.Keywords = append([]string(nil), r.Context.Keywords...)
	}
	if len(ctx.Sources) == 0 {
		ctx.Sources = append([]string(nil), sources...)
	}
	if ctx.ComplexityHint == "" {
		ctx.ComplexityHint = complexity
	}
	enhanced.Context = &ctx

	opts := RequestOptions{}
	if r.Options != nil {
		opts = *r.Options
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	enhanced.Options = &opts

	return enhanced
}

// SourceSummary describes one retrieved passage in response metadata.
type SourceSummary struct {
	Source  string  `json:"source"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// Usage captures normalized token usage.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Metadata carries execution details alongside response content.
type Metadata struct {
	RequestID         string          `json:"request_id,omitempty"`
	Model             string          `json:"model,omitempty"`
	Usage             Usage           `json:"usage"`
	Elapsed           time.Duration   `json:"elapsed_ms"`
	Sources           []SourceSummary `json:"sources,omitempty"`
	Confidence        float64         `json:"confidence"`
	Citations         []string        `json:"citations,omitempty"`
	SubQuestions      []string        `json:"sub_questions,omitempty"`
	RoutingSummary    string          `json:"routing_summary,omitempty"`
	OrchestrationTime time.Duration   `json:"orchestration_ms,omitempty"`
}

// Error codes surfaced in ErrorDetails.
const (
	ErrCodeExecution     = "execution_error"
	ErrCodeTimeout       = "timeout"
	ErrCodeOrchestration = "orchestration_error"
)

// ErrorDetails reports a recovered-with-degradation or terminal failure.
// When present, the response content is a user-safe explanation; internal
// error text lives only in Message.
type ErrorDetails struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// Response is the final output of one orchestrated execution.
type Response struct {
	Content            string        `json:"content"`
	Agent              string        `json:"agent"`
	Metadata           Metadata      `json:"metadata"`
	StreamingSupported bool          `json:"streaming_supported"`
	Error              *ErrorDetails `json:"error,omitempty"`
}

// Failed reports whether the response carries error details.
func (r *Response) Failed() bool {
	return r != nil && r.Error != nil
}
