package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/agent"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/classifier"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/provider"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/retrieval"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/router"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// End-to-end scenarios over the real classifier, router and worker registry,
// with only the completion provider mocked.

func newScenarioStack() (*Orchestrator, *router.Router) {
	p := provider.NewMockProvider(provider.WithMockResponses(map[string]string{
		"2+2":     "question answering",
		"rewrite": "rewriting",
	}))
	index := retrieval.NewMemoryIndex()
	rt := router.New(classifier.New(p, "test-model"), router.NewSourceResolver(index, nil))
	o := New(agent.NewRegistry(p, index), rt)
	o.sleep = func(context.Context, time.Duration) error { return nil }
	return o, rt
}

func TestScenarioSimpleQuestion(t *testing.T) {
	o, rt := newScenarioStack()

	decision, err := rt.Route(context.Background(), &schema.Request{Query: "What is 2+2?"})
	require.NoError(t, err)

	assert.Equal(t, agent.TypeQA, decision.Agent)
	assert.Equal(t, agent.TypeResearch, decision.Fallback)
	assert.Equal(t, classifier.LevelSimple, decision.Complexity.Level)
	assert.Len(t, decision.SuggestedSources, 1, "simple QA uses a single source")

	resp, err := o.Process(context.Background(), &schema.Request{Query: "What is 2+2?"})
	require.NoError(t, err)
	assert.Equal(t, string(agent.TypeQA), resp.Agent)
	assert.False(t, resp.Failed())
}

func TestScenarioRewriteRequest(t *testing.T) {
	_, rt := newScenarioStack()

	decision, err := rt.Route(context.Background(), &schema.Request{
		Query: "Please rewrite this paragraph to be clearer",
	})
	require.NoError(t, err)

	assert.Equal(t, agent.TypeRewrite, decision.Agent)
	assert.Equal(t, agent.TypeQA, decision.Fallback)
	assert.Greater(t, decision.Confidence, 0.85, "explicit rewrite keyword boosts confidence")
}

func TestScenarioComplexMultiStepQuery(t *testing.T) {
	_, rt := newScenarioStack()

	query := "First analyze the existing database architecture and then evaluate how " +
		"the authentication pipeline interacts with the deployment infrastructure so " +
		"that we can produce a comprehensive step-by-step migration plan covering " +
		"every service, including the API gateway, the message broker, the cache " +
		"layer, and the monitoring stack, and explain which trade-offs matter most " +
		"for the team going forward?"

	decision, err := rt.Route(context.Background(), &schema.Request{Query: query})
	require.NoError(t, err)

	assert.Equal(t, classifier.LevelComplex, decision.Complexity.Level)
	assert.True(t, decision.Complexity.Factors.RequiresMultipleSteps)
	assert.Equal(t, agent.TypePlanner, decision.Agent)
	assert.Equal(t, agent.TypeQA, decision.Fallback)
}

func TestScenarioTimeoutThenFallback(t *testing.T) {
	qa := newScriptedAgent(agent.TypeQA, "unused", context.DeadlineExceeded)
	research := newScriptedAgent(agent.TypeResearch, "slower but steady")
	o := newTestOrchestrator(agent.NewRegistryWith(qa, research), WithMaxRetries(1))

	resp, err := o.Process(context.Background(), simpleRequest())
	require.NoError(t, err)

	assert.Equal(t, "slower but steady", resp.Content)
	assert.Equal(t, string(agent.TypeResearch), resp.Agent)
	assert.False(t, resp.Failed(), "fallback recovery leaves no error details")
}
