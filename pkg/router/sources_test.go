package router

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/retrieval"
)

func TestResolveFiltersUnified(t *testing.T) {
	index := retrieval.NewMemoryIndex(retrieval.WithSources(
		retrieval.SourceOpenAI, retrieval.SourceUnified, retrieval.SourceMemory,
	))
	resolver := NewSourceResolver(index, nil)

	got := resolver.Resolve(context.Background())
	want := []string{retrieval.SourceOpenAI, retrieval.SourceMemory}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveFailsOpenToDefaults(t *testing.T) {
	tests := []struct {
		name     string
		resolver *SourceResolver
	}{
		{"broken backend", NewSourceResolver(brokenRetriever{}, nil)},
		{"nil retriever", NewSourceResolver(nil, nil)},
		{"only unified advertised", NewSourceResolver(
			retrieval.NewMemoryIndex(retrieval.WithSources(retrieval.SourceUnified)), nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.resolver.Resolve(context.Background())
			if diff := cmp.Diff(retrieval.DefaultSources, got); diff != "" {
				t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
