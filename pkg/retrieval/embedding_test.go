package retrieval

import (
	"context"
	"math"
	"testing"
)

// stubEmbedder maps known texts to fixed vectors.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(_ context.Context, text string, _ bool) ([]float32, error) {
	if vec, ok := s.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 1}, nil
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"scaled", []float32{2, 0}, []float32{5, 0}, 1},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestVectorIndexSearchRanksBySimilarity(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"query":    {1, 0, 0},
		"close":    {0.9, 0.1, 0},
		"far":      {0, 1, 0},
		"opposite": {-1, 0, 0},
	}}

	v := NewVectorIndex(embedder, SourceOpenAI)
	ctx := context.Background()
	for _, content := range []string{"close", "far", "opposite"} {
		if err := v.Add(ctx, Document{Content: content}); err != nil {
			t.Fatal(err)
		}
	}

	results, err := v.Search(ctx, "query", SearchOptions{Threshold: 0.5, MaxResults: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 above threshold", len(results))
	}
	if results[0].Content != "close" {
		t.Errorf("top result = %q, want close", results[0].Content)
	}
	if results[0].Source != SourceOpenAI {
		t.Errorf("source = %q, want %q", results[0].Source, SourceOpenAI)
	}
}

func TestVectorIndexListSources(t *testing.T) {
	v := NewVectorIndex(&stubEmbedder{}, "neon")
	sources, err := v.ListSources(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 || sources[0] != "neon" {
		t.Errorf("ListSources = %v, want [neon]", sources)
	}
}
