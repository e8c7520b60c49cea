package agent

import (
	"context"
	"strings"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/provider"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/retrieval"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// rewriteMode selects the instruction flavor for the rewrite worker.
type rewriteMode string

const (
	modeSummarize rewriteMode = "summarize"
	modeRephrase  rewriteMode = "rephrase"
	modeOptimize  rewriteMode = "optimize"
)

// RewriteAgent transforms existing text: summaries, rephrasings and
// readability improvements. Mode detection only tailors instructions; the
// execution path is the shared base contract with no tools.
type RewriteAgent struct {
	base
}

// NewRewriteAgent creates the rewrite worker.
func NewRewriteAgent(p provider.Provider, r retrieval.Retriever) *RewriteAgent {
	return &RewriteAgent{base: base{
		agentType: TypeRewrite,
		capability: Capability{
			Name:               "Rewrite",
			Description:        "Summarizes, rephrases and polishes existing text.",
			SupportsStreaming:  true,
			RequiresTools:      false,
			DefaultMaxTokens:   1536,
			DefaultTemperature: 0.4,
		},
		provider:  p,
		retriever: r,
	}}
}

// Instructions tailors the system instructions to the detected mode.
func (a *RewriteAgent) Instructions(req *schema.Request) string {
	common := "You are a skilled editor. Preserve the original meaning and factual content."
	switch detectRewriteMode(req.Query) {
	case modeSummarize:
		return common + " Produce a concise summary that keeps the key points and drops redundancy."
	case modeOptimize:
		return common + " Improve clarity, flow and word choice without changing the register."
	default:
		return common + " Rephrase the text in different words while keeping tone and length similar."
	}
}

// Tools returns no tools; rewriting never uses them.
func (a *RewriteAgent) Tools(req *schema.Request) []provider.Tool {
	return buildTools(a.capability, req)
}

// Execute produces the rewritten text.
func (a *RewriteAgent) Execute(ctx context.Context, req *schema.Request) (*schema.Response, error) {
	return a.run(ctx, req, a.Instructions(req), a.Tools(req))
}

// ExecuteStream streams the rewritten text.
func (a *RewriteAgent) ExecuteStream(ctx context.Context, req *schema.Request, onChunk func(string)) (*schema.Response, error) {
	return a.runStream(ctx, req, a.Instructions(req), a.Tools(req), onChunk)
}

func detectRewriteMode(query string) rewriteMode {
	lowered := strings.ToLower(query)
	switch {
	case strings.Contains(lowered, "summar") || strings.Contains(lowered, "tldr") || strings.Contains(lowered, "shorten"):
		return modeSummarize
	case strings.Contains(lowered, "improve") || strings.Contains(lowered, "optimi") || strings.Contains(lowered, "polish") || strings.Contains(lowered, "enhance"):
		return modeOptimize
	default:
		return modeRephrase
	}
}
