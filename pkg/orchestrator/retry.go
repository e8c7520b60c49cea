package orchestrator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/agent"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// executeWithRetry runs one worker with an attempt budget of maxRetries.
// Every failure spends budget, timeouts and upstream errors alike; only
// caller cancellation stops the loop early. Each attempt gets its own
// deadline, with exponential backoff (1s, 2s, 4s, ...) between attempts.
func (o *Orchestrator) executeWithRetry(ctx context.Context, a agent.Agent, req *schema.Request) (*schema.Response, error) {
	attempts := o.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		resp, err := o.executeOnce(ctx, a, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if ctx.Err() != nil || attempt == attempts-1 {
			break
		}

		backoff := backoffFor(attempt)
		o.logger.Debug("retrying worker",
			zap.String("agent", string(a.Type())),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		if err := o.sleep(ctx, backoff); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (o *Orchestrator) executeOnce(ctx context.Context, a agent.Agent, req *schema.Request) (*schema.Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return a.Execute(attemptCtx, req)
}

// backoffFor doubles per attempt starting at one second.
func backoffFor(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
