package agent

import (
	"context"
	"regexp"
	"strings"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/provider"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/retrieval"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

const (
	maxCitations       = 20
	minResearchResults = 5
)

// Citation pattern families plus bare URLs.
var (
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)]+)\)`)
	numberedRefPattern  = regexp.MustCompile(`(?m)^\s*\[(\d+)\]:?\s+(.+)$`)
	attributionPattern  = regexp.MustCompile(`(?i)(?:according to|source:)\s+([A-Z][^.,\n]{3,80})`)
	bareURLPattern      = regexp.MustCompile(`https?://[^\s)\]>"']+`)
)

// ResearchAgent synthesizes information across sources. It forces
// citation-required retrieval with a larger result budget and extracts
// citation-like substrings from the generated text.
type ResearchAgent struct {
	base
}

// NewResearchAgent creates the research worker.
func NewResearchAgent(p provider.Provider, r retrieval.Retriever) *ResearchAgent {
	return &ResearchAgent{base: base{
		agentType: TypeResearch,
		capability: Capability{
			Name:               "Research",
			Description:        "Deep research across sources with citations.",
			SupportsStreaming:  true,
			RequiresTools:      true,
			DefaultMaxTokens:   4096,
			DefaultTemperature: 0.2,
		},
		provider:  p,
		retriever: r,
	}}
}

// Instructions produces the research system instructions.
func (a *ResearchAgent) Instructions(_ *schema.Request) string {
	return "You are a research assistant. Synthesize information across the " +
		"provided context passages, cite every factual claim with its source, " +
		"and clearly separate established facts from your own inference."
}

// Tools exposes retrieval tools when the request opted in.
func (a *ResearchAgent) Tools(req *schema.Request) []provider.Tool {
	return buildTools(a.capability, req)
}

// Execute runs research with citation-required retrieval and extracts
// citations into metadata.
func (a *ResearchAgent) Execute(ctx context.Context, req *schema.Request) (*schema.Response, error) {
	resp, err := a.run(ctx, a.forceCitations(req), a.Instructions(req), a.Tools(req))
	if err != nil {
		return nil, err
	}
	resp.Metadata.Citations = ExtractCitations(resp.Content)
	return resp, nil
}

// ExecuteStream streams the research response; citations are extracted from
// the accumulated content once the stream completes.
func (a *ResearchAgent) ExecuteStream(ctx context.Context, req *schema.Request, onChunk func(string)) (*schema.Response, error) {
	resp, err := a.runStream(ctx, a.forceCitations(req), a.Instructions(req), a.Tools(req), onChunk)
	if err != nil {
		return nil, err
	}
	resp.Metadata.Citations = ExtractCitations(resp.Content)
	return resp, nil
}

// forceCitations copies the request with citation mode on and at least the
// research minimum of retrieval results.
func (a *ResearchAgent) forceCitations(req *schema.Request) *schema.Request {
	forced := *req
	ctx := schema.RequestContext{}
	if req.Context != nil {
		ctx = *req.Context
	}
	ctx.RequireCitations = true
	if ctx.MaxResults < minResearchResults {
		ctx.MaxResults = minResearchResults
	}
	forced.Context = &ctx
	return &forced
}

// ExtractCitations collects citation-like substrings: markdown links,
// numbered references, attribution phrases and bare URLs. Deduplicated,
// capped at 20.
func ExtractCitations(content string) []string {
	var citations []string
	seen := make(map[string]bool)

	add := func(value string) {
		value = strings.TrimSpace(strings.TrimRight(value, ".,;"))
		if value == "" || seen[value] {
			return
		}
		seen[value] = true
		citations = append(citations, value)
	}

	for _, m := range markdownLinkPattern.FindAllStringSubmatch(content, -1) {
		add(m[1] + " (" + m[2] + ")")
	}
	for _, m := range numberedRefPattern.FindAllStringSubmatch(content, -1) {
		add(m[2])
	}
	for _, m := range attributionPattern.FindAllStringSubmatch(content, -1) {
		add(m[1])
	}
	for _, url := range bareURLPattern.FindAllString(content, -1) {
		if strings.Contains(content, "]("+url) {
			continue // already captured as a markdown link
		}
		add(url)
	}

	if len(citations) > maxCitations {
		citations = citations[:maxCitations]
	}
	return citations
}
