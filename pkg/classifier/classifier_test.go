package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/provider"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

func TestClassifyUsesProviderLabel(t *testing.T) {
	p := provider.NewMockProvider(provider.WithMockResponses(map[string]string{
		"draw up a rollout": "planning",
	}))
	c := New(p, "test-model")

	got := c.Classify(context.Background(), &schema.Request{Query: "Draw up a rollout for the new firmware"})

	assert.Equal(t, IntentPlanning, got.Intent)
	assert.Equal(t, 1, p.Calls(), "exactly one completion call per request")
}

func TestClassifyFailsOpenOnProviderError(t *testing.T) {
	p := provider.NewMockProvider(provider.WithMockFailures(errors.New("backend down")))
	c := New(p, "test-model")

	got := c.Classify(context.Background(), &schema.Request{Query: "anything at all"})

	assert.Equal(t, IntentQuestionAnswering, got.Intent)
}

func TestClassifyWithoutProvider(t *testing.T) {
	c := New(nil, "")

	got := c.Classify(context.Background(), &schema.Request{Query: "anything"})

	assert.Equal(t, IntentQuestionAnswering, got.Intent)
}

func TestClassifyHonorsHints(t *testing.T) {
	p := provider.NewMockProvider()
	c := New(p, "test-model")

	got := c.Classify(context.Background(), &schema.Request{
		Query: "short",
		Context: &schema.RequestContext{
			IntentHint:     "research",
			ComplexityHint: "Complex",
		},
	})

	assert.Equal(t, IntentResearch, got.Intent)
	assert.Equal(t, LevelComplex, got.Complexity.Level)
	assert.Equal(t, 0, p.Calls(), "intent hint must skip the completion call")
}

func TestClassifyIgnoresInvalidHints(t *testing.T) {
	p := provider.NewMockProvider(provider.WithMockResponses(map[string]string{
		"summarize": "summarization",
	}))
	c := New(p, "test-model")

	got := c.Classify(context.Background(), &schema.Request{
		Query: "Summarize this page",
		Context: &schema.RequestContext{
			IntentHint:     "not_a_category",
			ComplexityHint: "extreme",
		},
	})

	assert.Equal(t, IntentSummarization, got.Intent)
	assert.Equal(t, LevelSimple, got.Complexity.Level)
}

func TestClassifyNoCachingBetweenRequests(t *testing.T) {
	p := provider.NewMockProvider()
	c := New(p, "test-model")

	req := &schema.Request{Query: "same query twice"}
	c.Classify(context.Background(), req)
	c.Classify(context.Background(), req)

	assert.Equal(t, 2, p.Calls(), "identical queries are classified fresh")
}

func TestWithKeywordTableOverride(t *testing.T) {
	p := provider.NewMockProvider(provider.WithMockResponses(map[string]string{
		"inspect": "inspection",
	}))
	c := New(p, "test-model", WithKeywordTable([]IntentKeyword{
		{Fragment: "inspection", Intent: IntentAnalysis},
	}))

	got := c.Classify(context.Background(), &schema.Request{Query: "inspect the chuck"})
	require.Equal(t, IntentAnalysis, got.Intent)
}
