package router

import (
	"fmt"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/agent"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/classifier"
)

// Decision captures one routing decision. Agent is always a registered
// worker; Fallback, when set, differs from it.
type Decision struct {
	Agent            agent.Type            `json:"agent"`
	Fallback         agent.Type            `json:"fallback,omitempty"`
	Confidence       float64               `json:"confidence"`
	Reasoning        string                `json:"reasoning"`
	SuggestedSources []string              `json:"suggested_sources"`
	Intent           classifier.Intent     `json:"intent"`
	Complexity       classifier.Complexity `json:"complexity"`
}

// Summary renders a short routing summary for response metadata. The string
// is advisory only and never parsed.
func (d *Decision) Summary() string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("agent=%s fallback=%s intent=%s complexity=%s confidence=%.2f",
		d.Agent, d.Fallback, d.Intent, d.Complexity.Level, d.Confidence)
}
