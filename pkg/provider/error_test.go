package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"canceled", context.Canceled, false},
		{"plain error", errors.New("boom"), false},
		{"rate limited", &ProviderError{Status: 429}, true},
		{"server error", &ProviderError{Status: 503}, true},
		{"bad request", &ProviderError{Status: 400}, false},
		{"unauthorized", &ProviderError{Status: 401}, false},
		{"temporary flag", &ProviderError{Temporary: true}, true},
		{"wrapped provider error", fmt.Errorf("agent: %w", &ProviderError{Status: 500}), true},
		{"rate limited constructor", RateLimited(errors.New("slow down")), true},
		{"unavailable constructor", Unavailable(errors.New("conn dropped")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := &ProviderError{Status: 502, Err: inner}

	if !errors.Is(err, inner) {
		t.Error("ProviderError must unwrap to its inner error")
	}
	if err.Error() != "connection reset" {
		t.Errorf("Error() = %q, want inner message", err.Error())
	}

	bare := &ProviderError{Status: 500}
	if bare.Error() == "" {
		t.Error("Error() without inner error must still describe the failure")
	}
}

func TestRetryableStatus(t *testing.T) {
	for status, want := range map[int]bool{429: true, 500: true, 599: true, 400: false, 404: false, 200: false} {
		if got := retryableStatus(status); got != want {
			t.Errorf("retryableStatus(%d) = %v, want %v", status, got, want)
		}
	}
}
