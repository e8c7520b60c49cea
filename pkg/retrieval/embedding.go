package retrieval

import (
	"context"
	"fmt"
	"math"
	"sync"

	"google.golang.org/genai"
)

// Embedder generates dense vectors for text.
type Embedder interface {
	Embed(ctx context.Context, text string, isQuery bool) ([]float32, error)
}

// GenAIEmbedder generates embeddings using Google's Gemini API.
type GenAIEmbedder struct {
	client *genai.Client
	model  string
}

// NewGenAIEmbedder creates a new GenAI embedder.
func NewGenAIEmbedder(apiKey, model string) (*GenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai API key is required")
	}
	if model == "" {
		model = "gemini-embedding-001"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIEmbedder{client: client, model: model}, nil
}

// Embed generates an embedding for a single text.
func (e *GenAIEmbedder) Embed(ctx context.Context, text string, isQuery bool) ([]float32, error) {
	taskType := "RETRIEVAL_DOCUMENT"
	if isQuery {
		taskType = "RETRIEVAL_QUERY"
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType: taskType,
	})
	if err != nil {
		return nil, fmt.Errorf("genai embed failed: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return result.Embeddings[0].Values, nil
}

// VectorIndex is an in-process similarity index over embedded documents.
// It backs the "openai" and "neon" style vector sources when the surrounding
// deployment has no external store wired.
type VectorIndex struct {
	embedder Embedder
	source   string

	mu      sync.RWMutex
	docs    []Document
	vectors [][]float32
}

// NewVectorIndex creates a vector index for one named source.
func NewVectorIndex(embedder Embedder, source string) *VectorIndex {
	if source == "" {
		source = SourceOpenAI
	}
	return &VectorIndex{embedder: embedder, source: source}
}

// Add embeds and stores a document.
func (v *VectorIndex) Add(ctx context.Context, doc Document) error {
	vec, err := v.embedder.Embed(ctx, doc.Content, false)
	if err != nil {
		return err
	}
	if doc.Source == "" {
		doc.Source = v.source
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.docs = append(v.docs, doc)
	v.vectors = append(v.vectors, vec)
	return nil
}

// ListSources returns the source this index serves.
func (v *VectorIndex) ListSources(_ context.Context) ([]string, error) {
	return []string{v.source}, nil
}

// Search embeds the query and ranks documents by cosine similarity.
func (v *VectorIndex) Search(ctx context.Context, query string, opts SearchOptions) ([]Passage, error) {
	queryVec, err := v.embedder.Embed(ctx, query, true)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	allowed := sourceSet(opts.Sources)
	var results []Passage
	for i, doc := range v.docs {
		if len(allowed) > 0 && !allowed[doc.Source] {
			continue
		}
		score := cosineSimilarity(queryVec, v.vectors[i])
		if score < opts.Threshold {
			continue
		}
		results = append(results, Passage{
			Content:  doc.Content,
			Source:   doc.Source,
			Score:    score,
			Metadata: doc.Metadata,
		})
	}

	sortByScore(results)
	return capResults(results, opts.MaxResults), nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
