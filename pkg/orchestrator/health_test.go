package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/agent"
)

func TestHealthCheckAllHealthy(t *testing.T) {
	qa := newScriptedAgent(agent.TypeQA, "OK, systems nominal")
	research := newScriptedAgent(agent.TypeResearch, "All good here")
	o := newTestOrchestrator(agent.NewRegistryWith(qa, research))

	report := o.HealthCheck(context.Background())

	assert.Equal(t, StatusHealthy, report.Status)
	assert.True(t, report.Healthy())
	require.Len(t, report.Agents, 2)
	for typ, h := range report.Agents {
		assert.True(t, h.Available, "%s should be available", typ)
		assert.Empty(t, h.Error)
	}
	assert.False(t, report.CheckedAt.IsZero())
}

func TestHealthCheckAggregates(t *testing.T) {
	qa := newScriptedAgent(agent.TypeQA, "OK, fine")
	research := newScriptedAgent(agent.TypeResearch, "unused", errors.New("down"))
	o := newTestOrchestrator(agent.NewRegistryWith(qa, research))

	report := o.HealthCheck(context.Background())

	assert.InDelta(t, 0.5, report.SuccessRate, 1e-9)
	assert.GreaterOrEqual(t, int64(report.MeanLatency), int64(0))
}

func TestStatusMergesCapabilityAndAvailability(t *testing.T) {
	qa := newScriptedAgent(agent.TypeQA, "OK, fine")
	research := newScriptedAgent(agent.TypeResearch, "unused", errors.New("down"))
	o := newTestOrchestrator(agent.NewRegistryWith(qa, research))

	statuses := o.Status(context.Background())

	require.Len(t, statuses, 2)
	assert.True(t, statuses[agent.TypeQA].Available)
	assert.True(t, statuses[agent.TypeQA].Capability.SupportsStreaming)
	assert.False(t, statuses[agent.TypeResearch].Available)
}

func TestDetailedHealthCheckUnconfiguredProviderWins(t *testing.T) {
	qa := newScriptedAgent(agent.TypeQA, "OK, systems nominal")
	o := newTestOrchestrator(agent.NewRegistryWith(qa))

	report := o.DetailedHealthCheck(context.Background(), ProviderHealth{
		Name:  "anthropic",
		Error: "ANTHROPIC_API_KEY is not set",
	})

	assert.Equal(t, StatusUnhealthy, report.Status, "missing credentials outrank healthy workers")
	require.NotNil(t, report.Provider)
	assert.False(t, report.Provider.Configured)
	assert.Contains(t, report.Provider.Error, "ANTHROPIC_API_KEY")
}

func TestDetailedHealthCheckConfiguredProviderKeepsWorkerStatus(t *testing.T) {
	qa := newScriptedAgent(agent.TypeQA, "OK, fine")
	research := newScriptedAgent(agent.TypeResearch, "unused", errors.New("down"))
	o := newTestOrchestrator(agent.NewRegistryWith(qa, research))

	report := o.DetailedHealthCheck(context.Background(), ProviderHealth{
		Name:       "openai",
		Configured: true,
	})

	assert.Equal(t, StatusDegraded, report.Status)
	require.NotNil(t, report.Provider)
	assert.True(t, report.Provider.Configured)
}

func TestWorseOf(t *testing.T) {
	assert.Equal(t, StatusUnhealthy, worseOf(StatusHealthy, StatusUnhealthy))
	assert.Equal(t, StatusUnhealthy, worseOf(StatusUnhealthy, StatusDegraded))
	assert.Equal(t, StatusDegraded, worseOf(StatusDegraded, StatusHealthy))
	assert.Equal(t, StatusHealthy, worseOf(StatusHealthy, StatusHealthy))
}

func TestHealthCheckDegraded(t *testing.T) {
	qa := newScriptedAgent(agent.TypeQA, "OK, fine")
	research := newScriptedAgent(agent.TypeResearch, "unused", errors.New("backend down"))
	o := newTestOrchestrator(agent.NewRegistryWith(qa, research))

	report := o.HealthCheck(context.Background())

	assert.Equal(t, StatusDegraded, report.Status)
	assert.True(t, report.Agents[agent.TypeQA].Available)
	assert.False(t, report.Agents[agent.TypeResearch].Available)
	assert.Contains(t, report.Agents[agent.TypeResearch].Error, "backend down")
}

func TestHealthCheckUnhealthy(t *testing.T) {
	qa := newScriptedAgent(agent.TypeQA, "unused", errors.New("down"))
	o := newTestOrchestrator(agent.NewRegistryWith(qa))

	report := o.HealthCheck(context.Background())

	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.False(t, report.Healthy())
}

func TestHealthCheckRejectsTrivialReplies(t *testing.T) {
	qa := newScriptedAgent(agent.TypeQA, "ok")
	o := newTestOrchestrator(agent.NewRegistryWith(qa))

	report := o.HealthCheck(context.Background())

	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.False(t, report.Agents[agent.TypeQA].Available)
	assert.Contains(t, report.Agents[agent.TypeQA].Error, "too short")
}
