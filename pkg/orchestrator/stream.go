package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/agent"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/router"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// StreamEvent is one item on a streaming execution channel. Exactly one of
// the fields is set: text chunks arrive first, then a single terminal event
// carrying either the final response or an error. The channel is closed
// after the terminal event.
type StreamEvent struct {
	Chunk    string
	Response *schema.Response
	Err      error
}

const streamBuffer = 16

// ProcessStream executes a request incrementally. Validation and routing
// errors are returned synchronously; everything after that, including an
// unregistered selected worker, arrives on the channel as a degraded
// response. Workers that cannot stream are executed blocking and their full
// content is emitted as one chunk.
func (o *Orchestrator) ProcessStream(ctx context.Context, req *schema.Request) (<-chan StreamEvent, error) {
	start := time.Now()

	decision, err := o.router.Route(ctx, req)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()

	primary, err := o.registry.Get(decision.Agent)
	if err != nil {
		resp := o.failureResponse(decision, fmt.Errorf("%w: %v", errOrchestration, err))
		o.stamp(resp, requestID, decision, time.Since(start))
		ch := make(chan StreamEvent, 2)
		ch <- StreamEvent{Chunk: resp.Content}
		ch <- StreamEvent{Response: resp}
		close(ch)
		return ch, nil
	}

	enhanced := req.Enhance(decision.SuggestedSources, string(decision.Complexity.Level), o.defaultModel)

	ch := make(chan StreamEvent, streamBuffer)
	go func() {
		defer close(ch)

		if !primary.Capability().SupportsStreaming {
			o.streamBlocking(ctx, ch, decision, enhanced, requestID, start)
			return
		}
		o.streamLive(ctx, ch, primary, decision, enhanced, requestID, start)
	}()

	return ch, nil
}

// streamBlocking degrades a non-streaming worker: run the full blocking
// path, then emit the content as a single chunk before the final response.
func (o *Orchestrator) streamBlocking(ctx context.Context, ch chan<- StreamEvent, decision *router.Decision, req *schema.Request, requestID string, start time.Time) {
	resp, err := o.executeDecision(ctx, decision, req)
	if err != nil {
		if ctx.Err() != nil {
			send(ctx, ch, StreamEvent{Err: ctx.Err()})
			return
		}
		resp = o.failureResponse(decision, err)
	}

	o.stamp(resp, requestID, decision, time.Since(start))
	if !send(ctx, ch, StreamEvent{Chunk: resp.Content}) {
		return
	}
	send(ctx, ch, StreamEvent{Response: resp})
}

// streamLive runs the worker's streaming path. A mid-stream failure falls
// back to the blocking fallback worker, whose content is emitted as one
// final chunk; without a usable fallback the stream ends degraded.
func (o *Orchestrator) streamLive(ctx context.Context, ch chan<- StreamEvent, primary agent.Agent, decision *router.Decision, req *schema.Request, requestID string, start time.Time) {
	streamCtx, cancel := context.WithTimeout(ctx, o.timeout)
	resp, streamErr := primary.ExecuteStream(streamCtx, req, func(chunk string) {
		send(ctx, ch, StreamEvent{Chunk: chunk})
	})
	cancel()

	if streamErr == nil {
		o.stamp(resp, requestID, decision, time.Since(start))
		send(ctx, ch, StreamEvent{Response: resp})
		return
	}
	if ctx.Err() != nil {
		send(ctx, ch, StreamEvent{Err: ctx.Err()})
		return
	}

	o.logger.Warn("stream failed, trying blocking fallback",
		zap.String("agent", string(decision.Agent)),
		zap.String("fallback", string(decision.Fallback)),
		zap.Error(streamErr),
	)

	if fallback, ok := o.fallbackFor(decision); ok {
		fbResp, fbErr := o.executeWithRetry(ctx, fallback, req)
		if fbErr == nil {
			o.stamp(fbResp, requestID, decision, time.Since(start))
			if send(ctx, ch, StreamEvent{Chunk: fbResp.Content}) {
				send(ctx, ch, StreamEvent{Response: fbResp})
			}
			return
		}
	}

	resp = o.failureResponse(decision, streamErr)
	o.stamp(resp, requestID, decision, time.Since(start))
	if send(ctx, ch, StreamEvent{Chunk: resp.Content}) {
		send(ctx, ch, StreamEvent{Response: resp})
	}
}

func send(ctx context.Context, ch chan<- StreamEvent, ev StreamEvent) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- ev:
		return true
	}
}
