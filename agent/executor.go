package agent

import (
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/hupe1980/ginny/core"
	"github.com/hupe1980/ginny/tool"
)

// panicError converts a recovered panic value to an error.
func panicError(r any) error { return &panicErr{val: r, stack: debug.Stack()} }

type panicErr struct {
	val   any
	stack []byte
}

func (p *panicErr) Error() string { return fmt.Sprintf("panic recovered: %v", p.val) }

// safely runs fn and converts a panic into an error.
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	return fn()
}

// executeTool looks up and runs one tool call. Panics are converted to errors.
func executeTool(registry tool.Registry, toolCtx *core.ToolContext, toolName, args string) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
			toolCtx.Logger().Error("agent.function.panic", "function", toolName, "recover", r)
		}
	}()

	impl, ok := registry[toolName]
	if !ok {
		return nil, fmt.Errorf("tool %s not found", toolName)
	}

	var argMap map[string]any
	if args == "" {
		argMap = map[string]any{}
	} else if err := json.Unmarshal([]byte(args), &argMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal args: %w", err)
	}
	if argMap == nil {
		argMap = map[string]any{}
	}

	return impl.Call(toolCtx, argMap)
}

// renderResult turns a tool result into the text handed back to the model.
func renderResult(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
