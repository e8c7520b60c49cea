// Package provider wraps text-completion backends behind one interface.
// The routing core treats generation as an opaque capability: messages and
// optional tools go in, text and token usage come out, optionally streamed.
package provider

import (
	"context"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// Tool describes a function the model may invoke. Parameters holds the
// JSON-schema properties for the tool input.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// GenerateParams configures one completion call.
type GenerateParams struct {
	Model       string
	Messages    []schema.Message
	Tools       []Tool
	MaxTokens   int
	Temperature float64
}

// Completion is the normalized output of a completion call.
type Completion struct {
	Text  string
	Model string
	Usage schema.Usage
}

// Provider defines the interface for text-completion backends.
type Provider interface {
	// Generate sends messages to the model and returns the completion.
	Generate(ctx context.Context, params GenerateParams) (*Completion, error)

	// GenerateStream streams the completion, invoking onDelta for each
	// incremental text fragment, and returns the accumulated completion.
	GenerateStream(ctx context.Context, params GenerateParams, onDelta func(string)) (*Completion, error)

	// Name returns the provider's identifier.
	Name() string

	// SupportsTools reports whether tool definitions are honored.
	SupportsTools() bool
}

// splitSystem separates system turns from the conversational messages.
// Backends that accept a single system instruction get them joined.
func splitSystem(messages []schema.Message) (system string, rest []schema.Message) {
	for _, msg := range messages {
		if msg.Role == schema.RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
			continue
		}
		rest = append(rest, msg)
	}
	return system, rest
}
