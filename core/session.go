package core

import (
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned by SessionStore.Get for unknown ids.
var ErrSessionNotFound = errors.New("session not found")

// Session binds one conversation to a user and its Transcript. The user is
// fixed at creation. The Transcript is internally synchronized, so a Session
// is shared by reference rather than cloned.
type Session struct {
	ID       string            `json:"id"`
	UserID   string            `json:"user_id"`
	Created  time.Time         `json:"created"`
	Updated  time.Time         `json:"updated"`
	Metadata map[string]string `json:"metadata"`

	transcript *Transcript
	mu         sync.RWMutex
}

// NewSession creates a new session for userID with an empty transcript.
func NewSession(id, userID string) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		UserID:     userID,
		Created:    now,
		Updated:    now,
		Metadata:   map[string]string{},
		transcript: NewTranscript(),
	}
}

// Transcript returns the session transcript.
func (s *Session) Transcript() *Transcript { return s.transcript }

// Touch updates the Updated timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Updated = time.Now()
}

// LastUpdated returns the Updated timestamp.
func (s *Session) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Updated
}

// SetMetadata sets a metadata value.
func (s *Session) SetMetadata(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Metadata[key] = value
	s.Updated = time.Now()
}

// GetMetadata returns a metadata value and whether it exists.
func (s *Session) GetMetadata(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.Metadata[key]
	return v, ok
}

// SessionStore persists sessions keyed by id.
type SessionStore interface {
	// Get returns the session or ErrSessionNotFound.
	Get(sessionID string) (*Session, error)
	// GetOrCreate returns the existing session or creates one bound to userID.
	GetOrCreate(sessionID, userID string) (*Session, error)
	// Delete removes a session. Deleting an unknown id is a no-op.
	Delete(sessionID string) error
	// List returns all session ids.
	List() ([]string, error)
}
