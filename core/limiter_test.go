package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelLimiter(t *testing.T) {
	l := NewModelLimiter(2)
	assert.NoError(t, l.Increment())
	assert.NoError(t, l.Increment())
	assert.Equal(t, 0, l.Remaining())

	err := l.Increment()
	assert.ErrorIs(t, err, ErrReplyGeneration)
	assert.Equal(t, 3, l.Count())
}

func TestModelLimiter_Unlimited(t *testing.T) {
	l := NewModelLimiter(0)
	for i := 0; i < 100; i++ {
		assert.NoError(t, l.Increment())
	}
	assert.Equal(t, -1, l.Remaining())
}
