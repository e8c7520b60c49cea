// Package router maps a classified request onto a worker, a fallback and a
// set of retrieval sources. Classification and source resolution are
// independent and run concurrently; selection joins their results.
package router

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/classifier"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// Router produces routing decisions for validated requests.
type Router struct {
	classifier *classifier.Classifier
	resolver   *SourceResolver
	logger     *zap.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// New creates a router over a classifier and source resolver.
func New(c *classifier.Classifier, resolver *SourceResolver, opts ...Option) *Router {
	r := &Router{
		classifier: c,
		resolver:   resolver,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route validates the request, classifies it and resolves sources in
// parallel, then selects the worker. The only error it can return is a
// validation rejection: classification and resolution both fail open.
func (r *Router) Route(ctx context.Context, req *schema.Request) (*Decision, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var classification classifier.Classification
	var sources []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		classification = r.classifier.Classify(gctx, req)
		return nil
	})
	g.Go(func() error {
		sources = r.resolver.Resolve(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	decision := Select(req.Query, classification, sources)
	r.logger.Debug("routing decision",
		zap.String("agent", string(decision.Agent)),
		zap.String("intent", string(decision.Intent)),
		zap.String("complexity", string(decision.Complexity.Level)),
		zap.Float64("confidence", decision.Confidence),
	)
	return &decision, nil
}
