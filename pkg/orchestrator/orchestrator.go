// Package orchestrator drives end-to-end request execution: route, enhance,
// execute with retry, fall back, and stamp orchestration metadata. Execution
// failures degrade into responses carrying error details; the only errors
// returned to callers are validation rejections and caller cancellation.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/agent"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/provider"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/router"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultMaxRetries    = 2
	defaultHealthTimeout = 5 * time.Second
)

const degradedContent = "I wasn't able to complete that request. Please try again in a moment."

// errOrchestration marks failures of the engine itself, a missing worker or
// an exhausted fallback chain, rather than a single worker call.
var errOrchestration = errors.New("orchestration failure")

// Orchestrator coordinates routing and worker execution.
type Orchestrator struct {
	registry      *agent.Registry
	router        *router.Router
	timeout       time.Duration
	maxRetries    int
	healthTimeout time.Duration
	defaultModel  string
	logger        *zap.Logger

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(context.Context, time.Duration) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout sets the per-attempt execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithMaxRetries sets the attempt budget per worker invocation.
func WithMaxRetries(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxRetries = n
		}
	}
}

// WithHealthTimeout sets the per-worker health probe timeout.
func WithHealthTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.healthTimeout = d
		}
	}
}

// WithDefaultModel sets the model merged into requests that do not name one.
func WithDefaultModel(model string) Option {
	return func(o *Orchestrator) {
		o.defaultModel = model
	}
}

// WithLogger sets the orchestrator logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an orchestrator over a worker registry and router.
func New(registry *agent.Registry, rt *router.Router, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry:      registry,
		router:        rt,
		timeout:       defaultTimeout,
		maxRetries:    defaultMaxRetries,
		healthTimeout: defaultHealthTimeout,
		logger:        zap.NewNop(),
		sleep:         sleepWithContext,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process executes a request end to end and always returns a response unless
// the request is invalid or the caller's context ends. Worker failures after
// retry and fallback surface as a degraded response with error details.
func (o *Orchestrator) Process(ctx context.Context, req *schema.Request) (*schema.Response, error) {
	start := time.Now()

	decision, err := o.router.Route(ctx, req)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	enhanced := req.Enhance(decision.SuggestedSources, string(decision.Complexity.Level), o.defaultModel)

	resp, err := o.executeDecision(ctx, decision, enhanced)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resp = o.failureResponse(decision, err)
	}

	o.stamp(resp, requestID, decision, time.Since(start))
	return resp, nil
}

// executeDecision runs the selected worker with retry, then the fallback
// worker with retry. The fallback's response keeps the fallback's agent name.
func (o *Orchestrator) executeDecision(ctx context.Context, decision *router.Decision, req *schema.Request) (*schema.Response, error) {
	primary, err := o.registry.Get(decision.Agent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errOrchestration, err)
	}

	resp, primaryErr := o.executeWithRetry(ctx, primary, req)
	if primaryErr == nil {
		return resp, nil
	}
	if ctx.Err() != nil {
		return nil, primaryErr
	}

	fallback, ok := o.fallbackFor(decision)
	if !ok {
		return nil, primaryErr
	}

	o.logger.Warn("primary worker failed, trying fallback",
		zap.String("agent", string(decision.Agent)),
		zap.String("fallback", string(decision.Fallback)),
		zap.Error(primaryErr),
	)

	resp, fallbackErr := o.executeWithRetry(ctx, fallback, req)
	if fallbackErr != nil {
		return nil, fmt.Errorf("%w: fallback %s after %s: %v", errOrchestration, decision.Fallback, decision.Agent, primaryErr)
	}
	return resp, nil
}

func (o *Orchestrator) fallbackFor(decision *router.Decision) (agent.Agent, bool) {
	if decision.Fallback == "" || decision.Fallback == decision.Agent {
		return nil, false
	}
	a, err := o.registry.Get(decision.Fallback)
	if err != nil {
		return nil, false
	}
	return a, true
}

// failureResponse degrades an exhausted execution into a response the caller
// can still render. The raw error text stays inside the error details.
func (o *Orchestrator) failureResponse(decision *router.Decision, err error) *schema.Response {
	code := schema.ErrCodeExecution
	switch {
	case errors.Is(err, errOrchestration):
		code = schema.ErrCodeOrchestration
	case errors.Is(err, context.DeadlineExceeded):
		code = schema.ErrCodeTimeout
	}
	return &schema.Response{
		Content: degradedContent,
		Agent:   string(decision.Agent),
		Error: &schema.ErrorDetails{
			Code:      code,
			Message:   err.Error(),
			Retryable: provider.IsTransient(err),
		},
	}
}

func (o *Orchestrator) stamp(resp *schema.Response, requestID string, decision *router.Decision, elapsed time.Duration) {
	resp.Metadata.RequestID = requestID
	resp.Metadata.RoutingSummary = decision.Summary()
	resp.Metadata.OrchestrationTime = elapsed
	if resp.Metadata.Confidence == 0 && resp.Error == nil {
		resp.Metadata.Confidence = decision.Confidence
	}
}

// Capabilities reports the capability descriptor per registered worker.
func (o *Orchestrator) Capabilities() map[agent.Type]agent.Capability {
	return o.registry.Capabilities()
}

// AgentStatus pairs a worker's static capability with its live probe result.
type AgentStatus struct {
	Capability agent.Capability `json:"capability"`
	Available  bool             `json:"available"`
}

// Status merges capabilities with a fresh health probe.
func (o *Orchestrator) Status(ctx context.Context) map[agent.Type]AgentStatus {
	report := o.HealthCheck(ctx)
	statuses := make(map[agent.Type]AgentStatus)
	for t, capability := range o.registry.Capabilities() {
		statuses[t] = AgentStatus{
			Capability: capability,
			Available:  report.Agents[t].Available,
		}
	}
	return statuses
}
