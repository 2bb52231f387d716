package core

import (
	"sort"
	"time"
)

// Role identifies the author of a Turn.
type Role string

const (
	// RoleUser marks a turn typed (or injected) on behalf of the user.
	RoleUser Role = "user"
	// RoleAssistant marks a turn produced by the orchestrator.
	RoleAssistant Role = "assistant"
)

// Turn is one entry of a conversation.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserTurn creates a user turn stamped with the current UTC time.
func NewUserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text, Timestamp: time.Now().UTC()}
}

// NewAssistantTurn creates an assistant turn stamped with the current UTC time.
func NewAssistantTurn(text string) Turn {
	return Turn{Role: RoleAssistant, Text: text, Timestamp: time.Now().UTC()}
}

// ToolCallEntry holds the verbatim output and error text of one tool for one turn.
type ToolCallEntry struct {
	Output string `json:"output"`
	Error  string `json:"error"`
}

// ToolCallRecord maps tool name to the outcome of its invocations during a
// single assistant turn. An empty record means no tool was used.
type ToolCallRecord map[string]ToolCallEntry

// NewToolCallRecord returns an empty, non-nil record.
func NewToolCallRecord() ToolCallRecord { return ToolCallRecord{} }

// Add merges one invocation outcome into the record. Repeated invocations of
// the same tool are joined with a newline in call order.
func (r ToolCallRecord) Add(tool, output, errText string) {
	e := r[tool]
	e.Output = joinLine(e.Output, output)
	e.Error = joinLine(e.Error, errText)
	r[tool] = e
}

// Names returns the recorded tool names in lexical order.
func (r ToolCallRecord) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy safe for independent mutation. A nil record clones to
// an empty one.
func (r ToolCallRecord) Clone() ToolCallRecord {
	out := make(ToolCallRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func joinLine(a, b string) string {
	switch {
	case b == "":
		return a
	case a == "":
		return b
	default:
		return a + "\n" + b
	}
}
