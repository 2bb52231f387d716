package testutil

import (
	"github.com/hupe1980/ginny/core"
)

type seededEntry struct {
	turn  core.Turn
	calls core.ToolCallRecord
}

// SessionBuilder helps construct sessions with a pre-populated transcript.
// Example:
//
//	sess := NewSessionBuilder("sess-1").User("Johnny").Said("hi").Replied("hello", "mem0_memory").Build()
type SessionBuilder struct {
	id       string
	userID   string
	metadata map[string]string
	entries  []seededEntry
}

// NewSessionBuilder creates a builder for the session id bound to the
// default user "current_user".
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id, userID: "current_user", metadata: map[string]string{}}
}

// User sets the user the session belongs to (chainable).
func (b *SessionBuilder) User(userID string) *SessionBuilder { b.userID = userID; return b }

// Metadata sets a metadata value (chainable).
func (b *SessionBuilder) Metadata(key, value string) *SessionBuilder {
	b.metadata[key] = value
	return b
}

// Said appends a user turn with an empty tool-call record (chainable).
func (b *SessionBuilder) Said(text string) *SessionBuilder {
	b.entries = append(b.entries, seededEntry{turn: core.NewUserTurn(text), calls: core.NewToolCallRecord()})
	return b
}

// Replied appends an assistant turn whose record lists tools with an empty
// output (chainable).
func (b *SessionBuilder) Replied(text string, tools ...string) *SessionBuilder {
	rec := core.NewToolCallRecord()
	for _, t := range tools {
		rec[t] = core.ToolCallEntry{}
	}
	return b.RepliedWith(text, rec)
}

// RepliedWith appends an assistant turn with an explicit record (chainable).
func (b *SessionBuilder) RepliedWith(text string, rec core.ToolCallRecord) *SessionBuilder {
	b.entries = append(b.entries, seededEntry{turn: core.NewAssistantTurn(text), calls: rec})
	return b
}

// Build returns a *core.Session with the configured user, metadata and turns.
func (b *SessionBuilder) Build() *core.Session {
	s := core.NewSession(b.id, b.userID)
	b.seed(s)
	return s
}

// BuildInto creates the session in store and seeds it.
func (b *SessionBuilder) BuildInto(store core.SessionStore) (*core.Session, error) {
	s, err := store.GetOrCreate(b.id, b.userID)
	if err != nil {
		return nil, err
	}
	b.seed(s)
	return s, nil
}

func (b *SessionBuilder) seed(s *core.Session) {
	for k, v := range b.metadata {
		s.SetMetadata(k, v)
	}
	for _, e := range b.entries {
		s.Transcript().Append(e.turn, e.calls)
	}
}
