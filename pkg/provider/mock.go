package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// MockProvider returns deterministic completions for local runs and tests.
// Responses are matched by substring against the last user message; failures
// and delays can be scripted to exercise retry and timeout paths.
type MockProvider struct {
	mu              sync.Mutex
	responses       map[string]string
	defaultResponse string
	failures        []error
	delay           time.Duration
	calls           int
	supportsTools   bool
}

// MockOption configures a MockProvider.
type MockOption func(*MockProvider)

// WithMockResponses sets substring-keyed responses.
func WithMockResponses(responses map[string]string) MockOption {
	return func(m *MockProvider) {
		m.responses = responses
	}
}

// WithMockFailures queues errors returned before any success.
func WithMockFailures(errs ...error) MockOption {
	return func(m *MockProvider) {
		m.failures = append(m.failures, errs...)
	}
}

// WithMockDelay makes every call block for d before returning.
func WithMockDelay(d time.Duration) MockOption {
	return func(m *MockProvider) {
		m.delay = d
	}
}

// WithMockTools toggles advertised tool support.
func WithMockTools(enabled bool) MockOption {
	return func(m *MockProvider) {
		m.supportsTools = enabled
	}
}

// NewMockProvider creates a mock provider with a default response.
func NewMockProvider(opts ...MockOption) *MockProvider {
	m := &MockProvider{
		responses:       make(map[string]string),
		defaultResponse: "mock response",
		supportsTools:   true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the provider identifier.
func (m *MockProvider) Name() string {
	return "mock"
}

// SupportsTools reports tool support.
func (m *MockProvider) SupportsTools() bool {
	return m.supportsTools
}

// Calls returns how many completion calls were made.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Generate returns a deterministic completion for the last user message.
func (m *MockProvider) Generate(ctx context.Context, params GenerateParams) (*Completion, error) {
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.delay):
		}
	}

	m.mu.Lock()
	m.calls++
	if len(m.failures) > 0 {
		err := m.failures[0]
		m.failures = m.failures[1:]
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()

	prompt := lastUserMessage(params.Messages)
	content := ""
	for key, response := range m.responses {
		if strings.Contains(strings.ToLower(prompt), strings.ToLower(key)) {
			content = response
			break
		}
	}
	if content == "" {
		content = fmt.Sprintf("%s: %s", m.defaultResponse, prompt)
	}

	return &Completion{
		Text:  content,
		Model: params.Model,
		Usage: schema.Usage{
			PromptTokens:     len(prompt) / 4,
			CompletionTokens: len(content) / 4,
			TotalTokens:      (len(prompt) + len(content)) / 4,
		},
	}, nil
}

// GenerateStream emits the completion word by word.
func (m *MockProvider) GenerateStream(ctx context.Context, params GenerateParams, onDelta func(string)) (*Completion, error) {
	completion, err := m.Generate(ctx, params)
	if err != nil {
		return nil, err
	}

	if onDelta != nil {
		words := strings.SplitAfter(completion.Text, " ")
		for _, word := range words {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			onDelta(word)
		}
	}
	return completion, nil
}

func lastUserMessage(messages []schema.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == schema.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
