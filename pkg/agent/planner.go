package agent

import (
	"context"
	"regexp"
	"strings"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/provider"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/retrieval"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

const maxPlanSteps = 10

var planLinePattern = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s+(.+)$`)

// PlannerAgent decomposes a goal into an ordered multi-step plan and
// extracts the individual steps from the generated text.
type PlannerAgent struct {
	base
}

// NewPlannerAgent creates the planning worker. Plans are post-processed as
// a whole, so the variant does not advertise streaming.
func NewPlannerAgent(p provider.Provider, r retrieval.Retriever) *PlannerAgent {
	return &PlannerAgent{base: base{
		agentType: TypePlanner,
		capability: Capability{
			Name:               "Planner",
			Description:        "Breaks complex goals into ordered, actionable steps.",
			SupportsStreaming:  false,
			RequiresTools:      false,
			DefaultMaxTokens:   3072,
			DefaultTemperature: 0.5,
		},
		provider:  p,
		retriever: r,
	}}
}

// Instructions produces the planning system instructions.
func (a *PlannerAgent) Instructions(_ *schema.Request) string {
	return "You are a planning assistant. Break the user's goal into a numbered " +
		"sequence of concrete steps. State assumptions, call out dependencies " +
		"between steps, and end with open questions that need answers before work starts."
}

// Tools returns no tools; planning does not require them.
func (a *PlannerAgent) Tools(req *schema.Request) []provider.Tool {
	return buildTools(a.capability, req)
}

// Execute produces the plan and extracts its steps into metadata.
func (a *PlannerAgent) Execute(ctx context.Context, req *schema.Request) (*schema.Response, error) {
	resp, err := a.run(ctx, req, a.Instructions(req), a.Tools(req))
	if err != nil {
		return nil, err
	}
	resp.Metadata.SubQuestions = ExtractSteps(resp.Content)
	return resp, nil
}

// ExecuteStream delegates to Execute; the planner does not stream.
func (a *PlannerAgent) ExecuteStream(ctx context.Context, req *schema.Request, onChunk func(string)) (*schema.Response, error) {
	resp, err := a.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if onChunk != nil {
		onChunk(resp.Content)
	}
	return resp, nil
}

// ExtractSteps pulls sub-items from numbered or bulleted lines, falling back
// to question-terminated lines, capped at 10 entries.
func ExtractSteps(content string) []string {
	var steps []string
	for _, line := range strings.Split(content, "\n") {
		if match := planLinePattern.FindStringSubmatch(line); match != nil {
			steps = append(steps, strings.TrimSpace(match[1]))
			continue
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasSuffix(trimmed, "?") && trimmed != "?" {
			steps = append(steps, trimmed)
		}
	}
	if len(steps) > maxPlanSteps {
		steps = steps[:maxPlanSteps]
	}
	return steps
}
