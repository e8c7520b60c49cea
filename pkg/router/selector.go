package router

import (
	"fmt"
	"strings"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/agent"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/classifier"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/retrieval"
)

const (
	baseConfidence     = 0.7
	domainKeywordBoost = 0.2
	simpleQABoost      = 0.1
	maxResearchSources = 3
	maxDefaultSources  = 2
)

// fallbackTable is the fixed one-hop fallback mapping.
var fallbackTable = map[agent.Type]agent.Type{
	agent.TypeQA:       agent.TypeResearch,
	agent.TypeRewrite:  agent.TypeQA,
	agent.TypePlanner:  agent.TypeQA,
	agent.TypeResearch: agent.TypeQA,
}

// domainKeywords boost confidence when the query names the chosen worker's
// domain explicitly.
var domainKeywords = map[agent.Type][]string{
	agent.TypeQA:       {"what is", "who is", "when did", "explain"},
	agent.TypeRewrite:  {"rewrite", "rephrase", "summarize", "reword"},
	agent.TypePlanner:  {"plan", "roadmap", "steps to", "break down"},
	agent.TypeResearch: {"research", "investigate", "deep dive", "sources"},
}

// Select maps a classification onto a worker, fallback, confidence and
// suggested sources. It is a pure function of its inputs: the priority
// rules run in fixed order and every intent falls into exactly one bucket.
func Select(query string, c classifier.Classification, availableSources []string) Decision {
	selected := selectAgent(c)

	decision := Decision{
		Agent:            selected,
		Fallback:         fallbackTable[selected],
		Confidence:       confidenceFor(query, selected, c),
		Reasoning:        reasoningFor(selected, c),
		SuggestedSources: suggestSources(selected, availableSources),
		Intent:           c.Intent,
		Complexity:       c.Complexity,
	}
	return decision
}

// selectAgent applies the priority rules in order.
func selectAgent(c classifier.Classification) agent.Type {
	complex := c.Complexity.Level == classifier.LevelComplex

	switch c.Intent {
	case classifier.IntentSummarization, classifier.IntentRewriting:
		return agent.TypeRewrite
	case classifier.IntentPlanning:
		return agent.TypePlanner
	case classifier.IntentResearch, classifier.IntentAnalysis:
		return agent.TypeResearch
	case classifier.IntentComparison:
		if complex {
			return agent.TypeResearch
		}
		return agent.TypeQA
	default:
		// question answering and general chat
		if complex && c.Complexity.Factors.RequiresMultipleSteps {
			return agent.TypePlanner
		}
		if complex || c.Complexity.Factors.NeedsSynthesis {
			return agent.TypeResearch
		}
		return agent.TypeQA
	}
}

func confidenceFor(query string, selected agent.Type, c classifier.Classification) float64 {
	confidence := baseConfidence

	lowered := strings.ToLower(query)
	for _, kw := range domainKeywords[selected] {
		if strings.Contains(lowered, kw) {
			confidence += domainKeywordBoost
			break
		}
	}
	if selected == agent.TypeQA && c.Complexity.Level == classifier.LevelSimple {
		confidence += simpleQABoost
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

func reasoningFor(selected agent.Type, c classifier.Classification) string {
	clauses := []string{
		fmt.Sprintf("Selected %s for %s task", selected, c.Intent),
		fmt.Sprintf("Complexity: %s", c.Complexity.Level),
	}
	if c.Complexity.Factors.RequiresMultipleSteps {
		clauses = append(clauses, "Multi-step approach needed")
	}
	if c.Complexity.Factors.NeedsSynthesis {
		clauses = append(clauses, "Information synthesis required")
	}
	return strings.Join(clauses, "; ")
}

// suggestSources picks retrieval sources in priority order: research traffic
// gets up to three, QA prefers the primary source alone, everything else up
// to two. The result is never empty.
func suggestSources(selected agent.Type, available []string) []string {
	if len(available) == 0 {
		available = retrieval.DefaultSources
	}

	switch selected {
	case agent.TypeResearch:
		return firstN(available, maxResearchSources)
	case agent.TypeQA:
		for _, s := range available {
			if s == retrieval.SourceOpenAI {
				return []string{s}
			}
		}
		return firstN(available, 1)
	default:
		return firstN(available, maxDefaultSources)
	}
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		values = values[:n]
	}
	return append([]string(nil), values...)
}
