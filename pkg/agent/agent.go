// Package agent defines the worker contract and the four concrete worker
// variants the router can select between. Concrete agents differ only in
// instructions, tool availability and response post-processing; message
// assembly, retrieval and confidence scoring live in the shared base.
package agent

import (
	"context"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/provider"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// Type identifies a worker variant.
type Type string

const (
	TypeQA       Type = "qa"
	TypeRewrite  Type = "rewrite"
	TypePlanner  Type = "planner"
	TypeResearch Type = "research"
)

// Types lists every worker variant in registration order.
var Types = []Type{TypeQA, TypeRewrite, TypePlanner, TypeResearch}

// Capability describes what a worker variant supports. Static: built at
// registry initialization and never mutated.
type Capability struct {
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	SupportsStreaming  bool    `json:"supports_streaming"`
	RequiresTools      bool    `json:"requires_tools"`
	DefaultMaxTokens   int     `json:"default_max_tokens"`
	DefaultTemperature float64 `json:"default_temperature"`
}

// Agent is the polymorphic execution contract each worker implements.
type Agent interface {
	// Type returns the worker variant identifier.
	Type() Type

	// Capability returns the static capability descriptor.
	Capability() Capability

	// Validate rejects requests the worker cannot process.
	Validate(req *schema.Request) error

	// Instructions produces the system instructions for a request.
	Instructions(req *schema.Request) string

	// Tools returns the tool set for a request. Non-empty only when the
	// capability requires tools and the request opted in.
	Tools(req *schema.Request) []provider.Tool

	// Execute produces a complete response.
	Execute(ctx context.Context, req *schema.Request) (*schema.Response, error)

	// ExecuteStream produces a response incrementally, invoking onChunk for
	// each text fragment in production order.
	ExecuteStream(ctx context.Context, req *schema.Request, onChunk func(string)) (*schema.Response, error)
}
