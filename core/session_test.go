package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_Metadata(t *testing.T) {
	s := NewSession("s1", "Johnny")
	assert.Equal(t, "Johnny", s.UserID)
	assert.NotNil(t, s.Transcript())
	assert.Equal(t, 0, s.Transcript().Len())

	before := s.LastUpdated()
	time.Sleep(time.Millisecond)
	s.SetMetadata("shell", "web")

	v, ok := s.GetMetadata("shell")
	assert.True(t, ok)
	assert.Equal(t, "web", v)
	assert.True(t, s.LastUpdated().After(before))

	_, ok = s.GetMetadata("missing")
	assert.False(t, ok)
}

func TestSession_TranscriptShared(t *testing.T) {
	s := NewSession("s1", "u")
	s.Transcript().Append(NewUserTurn("hi"), nil)
	assert.Equal(t, 1, s.Transcript().Len())
}
