package agent

import (
	"sync"

	"github.com/hupe1980/ginny/core"
)

// recorder accumulates the ToolCallRecord of a single turn from the tool
// loop's call trace.
type recorder struct {
	mu     sync.Mutex
	record core.ToolCallRecord
	names  []string
}

func newRecorder() *recorder {
	return &recorder{record: core.NewToolCallRecord()}
}

func (r *recorder) add(tool, output, errText string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record.Add(tool, output, errText)
	r.names = append(r.names, tool)
}

// snapshot returns a copy of the record.
func (r *recorder) snapshot() core.ToolCallRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record.Clone()
}

// calls returns tool names in invocation order, including repeats.
func (r *recorder) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}
