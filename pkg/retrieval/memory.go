package retrieval

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Document is a stored piece of information in the memory index.
type Document struct {
	ID        string
	Content   string
	Source    string
	Timestamp time.Time
	Metadata  map[string]string
}

// MemoryIndex is an in-process keyword index. It backs the "memory" source
// and doubles as the test retriever.
type MemoryIndex struct {
	mu       sync.RWMutex
	docs     []Document
	maxItems int
	sources  []string
}

// MemoryOption configures a MemoryIndex.
type MemoryOption func(*MemoryIndex)

// WithMaxItems sets the maximum number of documents to keep.
func WithMaxItems(max int) MemoryOption {
	return func(m *MemoryIndex) {
		m.maxItems = max
	}
}

// WithSources overrides the source identifiers the index advertises.
func WithSources(sources ...string) MemoryOption {
	return func(m *MemoryIndex) {
		m.sources = sources
	}
}

// NewMemoryIndex creates an empty memory index.
func NewMemoryIndex(opts ...MemoryOption) *MemoryIndex {
	m := &MemoryIndex{
		maxItems: 1000,
		sources:  []string{SourceMemory},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store adds a document to the index, trimming the oldest past capacity.
func (m *MemoryIndex) Store(doc Document) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if doc.ID == "" {
		doc.ID = "doc_" + strconv.Itoa(len(m.docs)+1)
	}
	if doc.Source == "" {
		doc.Source = SourceMemory
	}
	if doc.Timestamp.IsZero() {
		doc.Timestamp = time.Now()
	}

	m.docs = append(m.docs, doc)
	if len(m.docs) > m.maxItems {
		m.docs = m.docs[len(m.docs)-m.maxItems:]
	}
}

// Count returns the number of stored documents.
func (m *MemoryIndex) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// ListSources returns the advertised source identifiers.
func (m *MemoryIndex) ListSources(_ context.Context) ([]string, error) {
	return append([]string(nil), m.sources...), nil
}

// Search scores stored documents by keyword overlap with the query.
func (m *MemoryIndex) Search(ctx context.Context, query string, opts SearchOptions) ([]Passage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keywords := extractKeywords(strings.ToLower(query))
	allowed := sourceSet(opts.Sources)

	var results []Passage
	for _, doc := range m.docs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if len(allowed) > 0 && !allowed[doc.Source] {
			continue
		}

		score := keywordRelevance(strings.ToLower(doc.Content), keywords)
		if score < opts.Threshold || score <= 0 {
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

func sourceSet(sources []string) map[string]bool {
	set := make(map[string]bool, len(sources))
	for _, s := range sources {
		set[s] = true
	}
	return set
}

// extractKeywords splits a query into lowercase terms, dropping stopwords
// and anything shorter than three characters.
func extractKeywords(query string) []string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var keywords []string
	for _, field := range fields {
		if len(field) < 3 || stopwords[field] {
			continue
		}
		keywords = append(keywords, field)
	}
	return keywords
}

// keywordRelevance is the fraction of query keywords present in the content.
func keywordRelevance(content string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "was": true,
	"what": true, "when": true, "where": true, "how": true, "why": true,
	"this": true, "that": true, "with": true, "from": true, "please": true,
}
