package router

import (
	"context"

	"go.uber.org/zap"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/retrieval"
)

// SourceResolver decides which retrieval sources are available for a
// routing decision. Failures never propagate: resolution fails open to the
// default source pair so routing always proceeds.
type SourceResolver struct {
	retriever retrieval.Retriever
	logger    *zap.Logger
}

// NewSourceResolver creates a resolver over the given retrieval backend.
func NewSourceResolver(r retrieval.Retriever, logger *zap.Logger) *SourceResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SourceResolver{retriever: r, logger: logger}
}

// Resolve lists the currently available sources, filtering the synthetic
// unified pseudo-source. On any failure it returns the default pair.
func (s *SourceResolver) Resolve(ctx context.Context) []string {
	if s.retriever == nil {
		return append([]string(nil), retrieval.DefaultSources...)
	}

	sources, err := s.retriever.ListSources(ctx)
	if err != nil {
		s.logger.Debug("source listing failed, using defaults", zap.Error(err))
		return append([]string(nil), retrieval.DefaultSources...)
	}

	filtered := retrieval.FilterSources(sources)
	if len(filtered) == 0 {
		return append([]string(nil), retrieval.DefaultSources...)
	}
	return filtered
}
