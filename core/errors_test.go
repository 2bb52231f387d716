package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderError_IsProviderUnavailable(t *testing.T) {
	cause := context.DeadlineExceeded
	err := fmt.Errorf("lookup: %w", NewProviderError("openweather", "current", cause))

	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var pe *ProviderError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "openweather", pe.Provider)
	assert.Equal(t, "current", pe.Op)
	assert.Contains(t, err.Error(), "provider unavailable")
}

func TestProviderError_NilCause(t *testing.T) {
	err := NewProviderError("mem0", "get", nil)
	assert.Equal(t, "mem0 get: provider unavailable", err.Error())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.NotErrorIs(t, err, ErrEmptyInput)
}
