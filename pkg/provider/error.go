package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ProviderError carries backend failure metadata: the upstream HTTP status
// when one exists, and an explicit temporary flag for failures without one.
type ProviderError struct {
	Status    int
	Temporary bool
	Err       error
}

// RateLimited wraps the throttling failure backends report as HTTP 429.
func RateLimited(err error) *ProviderError {
	return &ProviderError{Status: 429, Err: err}
}

// Unavailable wraps a temporary failure that carries no HTTP status, such
// as a dropped connection or an overloaded backend.
func Unavailable(err error) *ProviderError {
	return &ProviderError{Temporary: true, Err: err}
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("provider error (status=%d)", e.Status)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// retryableStatus covers throttling and server-side failure codes.
func retryableStatus(status int) bool {
	return status == 429 || (status >= 500 && status <= 599)
}

// IsTransient reports whether a failed request could plausibly succeed if
// repeated. The execution engine spends its retry budget on every failure
// regardless; this predicate feeds the retryable flag that degraded
// responses surface to callers.
func IsTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Temporary || retryableStatus(provErr.Status)
	}
	return false
}
