package core

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderUnavailable marks a recoverable failure of an external
	// dependency (network, auth, rate limit, timeout, missing credential).
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrEmptyInput is returned when an utterance is empty or whitespace only.
	// It signals a no-op rather than a failure.
	ErrEmptyInput = errors.New("empty input")

	// ErrReplyGeneration marks a failure of the reply engine itself.
	ErrReplyGeneration = errors.New("reply generation failed")
)

// ProviderError wraps a connector failure with the provider and operation that
// produced it. It always matches ErrProviderUnavailable via errors.Is.
type ProviderError struct {
	Provider string // e.g. "mem0", "openweather", "sqlite"
	Op       string // e.g. "get", "put", "current", "forecast"
	Err      error
}

// NewProviderError constructs a ProviderError.
func NewProviderError(provider, op string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Provider, e.Op, ErrProviderUnavailable)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Provider, e.Op, ErrProviderUnavailable, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ProviderError) Unwrap() error { return e.Err }

// Is reports ErrProviderUnavailable equivalence.
func (e *ProviderError) Is(target error) bool { return target == ErrProviderUnavailable }
