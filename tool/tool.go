// Package tool implements the function calling subsystem that lets the
// orchestrator expose structured capabilities (preference memory, weather) to
// the model with schema validated arguments and consistent error handling.
package tool

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hupe1980/ginny/core"
	"github.com/hupe1980/ginny/internal/util"
	"github.com/hupe1980/ginny/model"
)

// Error codes carried by ToolError.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeExecution           = "EXECUTION_ERROR"
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
)

// Tool defines a capability the model may invoke by name.
//
// Implementations should:
//   - Provide a stable snake_case name and a description the model can act on
//   - Define a JSON schema for parameters
//   - Return *ToolError for failures the model should see
//   - Be safe for concurrent use unless documented otherwise
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool does.
	Description() string

	// Parameters returns a JSON schema describing the expected input format.
	Parameters() map[string]any

	// Call executes the tool with arguments decoded from the model's JSON.
	Call(toolCtx *core.ToolContext, args map[string]any) (any, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
	Err     error  `json:"-"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *ToolError) Unwrap() error { return e.Err }

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// wrapProviderError converts a connector failure into a ToolError, tagging
// unavailable providers with CodeProviderUnavailable.
func wrapProviderError(tool string, err error) *ToolError {
	code := CodeExecution
	if errors.Is(err, core.ErrProviderUnavailable) {
		code = CodeProviderUnavailable
	}
	return &ToolError{Tool: tool, Message: err.Error(), Code: code, Err: err}
}

// Registry indexes tools by name.
type Registry map[string]Tool

// NewRegistry builds a registry from tools. Later tools with a duplicate name
// replace earlier ones.
func NewRegistry(tools ...Tool) Registry {
	r := make(Registry, len(tools))
	for _, t := range tools {
		r[t.Name()] = t
	}
	return r
}

// Definitions returns model tool definitions sorted by name.
func (r Registry) Definitions() []model.ToolDefinition {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]model.ToolDefinition, 0, len(names))
	for _, name := range names {
		t := r[name]
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}
