package orchestrator

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/agent"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// Status summarizes overall system health.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// minProbeContent is the shortest probe reply counted as a real answer.
const minProbeContent = 3

// AgentHealth is one worker's probe result.
type AgentHealth struct {
	Agent     agent.Type    `json:"agent"`
	Available bool          `json:"available"`
	Latency   time.Duration `json:"latency_ms"`
	Error     string        `json:"error,omitempty"`
}

// ProviderHealth reports whether the upstream completion backend is usable.
// A backend whose credentials are missing cannot serve any worker.
type ProviderHealth struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	Error      string `json:"error,omitempty"`
}

// HealthReport aggregates per-worker probe results.
type HealthReport struct {
	Status      Status                     `json:"status"`
	Agents      map[agent.Type]AgentHealth `json:"agents"`
	Provider    *ProviderHealth            `json:"provider,omitempty"`
	MeanLatency time.Duration              `json:"mean_latency_ms"`
	SuccessRate float64                    `json:"success_rate"`
	CheckedAt   time.Time                  `json:"checked_at"`
}

// Healthy reports whether every worker answered.
func (r *HealthReport) Healthy() bool {
	return r != nil && r.Status == StatusHealthy
}

// HealthCheck probes every registered worker concurrently with a short
// trivial request. A worker is available when it answers within the probe
// timeout with non-trivial content. The report is healthy when all workers
// answer, degraded when some do, unhealthy when none do.
func (o *Orchestrator) HealthCheck(ctx context.Context) *HealthReport {
	types := o.registry.Types()
	results := make([]AgentHealth, len(types))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range types {
		g.Go(func() error {
			results[i] = o.probe(gctx, t)
			return nil
		})
	}
	g.Wait()

	report := &HealthReport{
		Agents:    make(map[agent.Type]AgentHealth, len(results)),
		CheckedAt: time.Now(),
	}
	available := 0
	var totalLatency time.Duration
	for _, r := range results {
		report.Agents[r.Agent] = r
		totalLatency += r.Latency
		if r.Available {
			available++
		}
	}
	if len(results) > 0 {
		report.MeanLatency = totalLatency / time.Duration(len(results))
		report.SuccessRate = float64(available) / float64(len(results))
	}

	switch {
	case len(results) > 0 && available == len(results):
		report.Status = StatusHealthy
	case available > 0:
		report.Status = StatusDegraded
	default:
		report.Status = StatusUnhealthy
	}
	return report
}

// DetailedHealthCheck folds upstream provider status into the worker probe
// report. An unconfigured provider counts as unhealthy, and the overall
// status is the worse of worker health and provider health.
func (o *Orchestrator) DetailedHealthCheck(ctx context.Context, prov ProviderHealth) *HealthReport {
	report := o.HealthCheck(ctx)
	report.Provider = &prov
	if !prov.Configured {
		report.Status = worseOf(report.Status, StatusUnhealthy)
	}
	return report
}

func worseOf(a, b Status) Status {
	if statusRank(a) >= statusRank(b) {
		return a
	}
	return b
}

func statusRank(s Status) int {
	switch s {
	case StatusUnhealthy:
		return 2
	case StatusDegraded:
		return 1
	default:
		return 0
	}
}

func (o *Orchestrator) probe(ctx context.Context, t agent.Type) AgentHealth {
	health := AgentHealth{Agent: t}

	a, err := o.registry.Get(t)
	if err != nil {
		health.Error = err.Error()
		return health
	}

	probeCtx, cancel := context.WithTimeout(ctx, o.healthTimeout)
	defer cancel()

	req := &schema.Request{
		Query:   "Health check: reply with a single short confirmation.",
		Options: &schema.RequestOptions{Model: o.defaultModel, MaxTokens: 16},
	}

	start := time.Now()
	resp, err := a.Execute(probeCtx, req)
	health.Latency = time.Since(start)
	if err != nil {
		health.Error = err.Error()
		return health
	}

	health.Available = len(strings.TrimSpace(resp.Content)) >= minProbeContent
	if !health.Available {
		health.Error = "probe reply too short"
	}
	return health
}
