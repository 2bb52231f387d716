package memory

import (
	"context"
	"sync"

	"github.com/hupe1980/ginny/core"
)

var _ core.PreferenceStore = (*InMemoryStore)(nil)

// InMemoryStore is a naive process-local PreferenceStore. Statements are kept
// in insertion order per user. Protected by RWMutex; Get returns copies.
type InMemoryStore struct {
	mu    sync.RWMutex
	prefs map[string][]string // userID -> statements
}

// NewInMemoryStore creates a new in-memory preference store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{prefs: make(map[string][]string)}
}

// Get returns a copy of the statements stored for userID.
func (m *InMemoryStore) Get(_ context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.prefs[userID]
	out := make([]string, len(stored))
	copy(out, stored)
	return out, nil
}

// Put appends statement to the user's record.
func (m *InMemoryStore) Put(_ context.Context, userID, statement string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[userID] = append(m.prefs[userID], statement)
	return nil
}

// Users returns the identifiers that have at least one statement.
func (m *InMemoryStore) Users() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]string, 0, len(m.prefs))
	for id := range m.prefs {
		users = append(users, id)
	}
	return users
}
