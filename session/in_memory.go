package session

import (
	"sort"
	"sync"

	"github.com/hupe1980/ginny/core"
)

var _ core.SessionStore = (*InMemoryStore)(nil)

// InMemoryStore is a volatile SessionStore keeping sessions in a process
// local map. It is safe for concurrent access. Sessions are returned by
// reference; their transcripts are synchronized internally.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Get returns an existing session.
func (s *InMemoryStore) Get(sessionID string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess, nil
	}
	return nil, core.ErrSessionNotFound
}

// GetOrCreate returns the session for sessionID, creating it for userID on
// first use. An existing session keeps its original user.
func (s *InMemoryStore) GetOrCreate(sessionID, userID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess, nil
	}
	sess := core.NewSession(sessionID, userID)
	s.sessions[sessionID] = sess
	return sess, nil
}

// Delete removes a session.
func (s *InMemoryStore) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// List returns the ids of all sessions, sorted.
func (s *InMemoryStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
