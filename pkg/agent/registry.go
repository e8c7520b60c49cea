package agent

import (
	"fmt"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/provider"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/retrieval"
)

// Registry holds the fixed set of worker variants. It is read-only after
// construction; no locking is required.
type Registry struct {
	agents map[Type]Agent
}

// NewRegistry builds the standard four-variant registry over one provider
// and retriever.
func NewRegistry(p provider.Provider, r retrieval.Retriever) *Registry {
	return &Registry{agents: map[Type]Agent{
		TypeQA:       NewQAAgent(p, r),
		TypeRewrite:  NewRewriteAgent(p, r),
		TypePlanner:  NewPlannerAgent(p, r),
		TypeResearch: NewResearchAgent(p, r),
	}}
}

// NewRegistryWith builds a registry from explicit agents, primarily for
// test harnesses substituting fakes.
func NewRegistryWith(agents ...Agent) *Registry {
	m := make(map[Type]Agent, len(agents))
	for _, a := range agents {
		m[a.Type()] = a
	}
	return &Registry{agents: m}
}

// Get returns the agent for a worker type.
func (r *Registry) Get(t Type) (Agent, error) {
	a, ok := r.agents[t]
	if !ok {
		return nil, fmt.Errorf("agent %q not registered", t)
	}
	return a, nil
}

// Has reports whether a worker type is registered.
func (r *Registry) Has(t Type) bool {
	_, ok := r.agents[t]
	return ok
}

// Types returns the registered worker types in canonical order.
func (r *Registry) Types() []Type {
	var types []Type
	for _, t := range Types {
		if _, ok := r.agents[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

// Capabilities returns the capability descriptor per registered worker.
func (r *Registry) Capabilities() map[Type]Capability {
	caps := make(map[Type]Capability, len(r.agents))
	for t, a := range r.agents {
		caps[t] = a.Capability()
	}
	return caps
}
