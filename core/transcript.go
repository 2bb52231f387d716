package core

import "sync"

// Entry pairs a Turn with the ToolCallRecord captured for it.
type Entry struct {
	Turn      Turn           `json:"turn"`
	ToolCalls ToolCallRecord `json:"tool_calls"`
}

// Transcript is the ordered conversation history of one session. Turns and
// their tool-call records are stored together so the turn sequence and the
// tool-call log are aligned 1:1 by position at all times. It is safe for
// concurrent access; all accessors return copies.
type Transcript struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{entries: []Entry{}}
}

// Append adds a turn with its tool-call record. A nil record is stored as an
// empty one.
func (t *Transcript) Append(turn Turn, toolCalls ToolCallRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Entry{Turn: turn, ToolCalls: toolCalls.Clone()})
}

// Clear atomically resets turns and tool-call log.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = []Entry{}
}

// All returns the ordered (turn, tool calls) sequence.
func (t *Transcript) All() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = Entry{Turn: e.Turn, ToolCalls: e.ToolCalls.Clone()}
	}
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Turns returns the turn sequence.
func (t *Transcript) Turns() []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Turn, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Turn
	}
	return out
}

// ToolCallLog returns the tool-call records, one per turn.
func (t *Transcript) ToolCallLog() []ToolCallRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]ToolCallRecord, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.ToolCalls.Clone()
	}
	return out
}

// History converts the turns into model contents, oldest first.
func (t *Transcript) History() []Content {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Content, 0, len(t.entries))
	for _, e := range t.entries {
		if e.Turn.Text == "" {
			continue
		}
		out = append(out, NewTextContent(string(e.Turn.Role), e.Turn.Text))
	}
	return out
}
