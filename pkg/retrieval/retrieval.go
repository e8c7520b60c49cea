// Package retrieval wraps vector/similarity search backends behind one
// interface. The routing core only depends on Search and ListSources; the
// concrete backends here exist so the repo runs end to end.
package retrieval

import (
	"context"
	"sort"
)

// Well-known source identifiers.
const (
	SourceOpenAI = "openai"
	SourceNeon   = "neon"
	SourceMemory = "memory"

	// SourceUnified is a synthetic aggregate name some callers send.
	// Agents only understand individual sources, so it is filtered out.
	SourceUnified = "unified"
)

// DefaultSources is the fail-open pair used when source listing fails.
var DefaultSources = []string{SourceOpenAI, SourceMemory}

// Passage is one ranked retrieval result.
type Passage struct {
	Content  string            `json:"content"`
	Source   string            `json:"source"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SearchOptions bounds one retrieval call.
type SearchOptions struct {
	Sources    []string
	MaxResults int
	Threshold  float64
}

// Retriever defines the interface for retrieval backends.
type Retriever interface {
	// Search returns ranked passages for the query.
	Search(ctx context.Context, query string, opts SearchOptions) ([]Passage, error)

	// ListSources returns the currently available source identifiers.
	ListSources(ctx context.Context) ([]string, error)
}

// FilterSources drops the synthetic unified pseudo-source.
func FilterSources(sources []string) []string {
	filtered := make([]string, 0, len(sources))
	for _, s := range sources {
		if s == SourceUnified {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}

func sortByScore(passages []Passage) {
	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].Score > passages[j].Score
	})
}

func capResults(passages []Passage, max int) []Passage {
	if max > 0 && len(passages) > max {
		return passages[:max]
	}
	return passages
}
