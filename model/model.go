package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/ginny/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by the orchestrator.
type Request struct {
	Instructions string           `json:"instructions"` // System prompt
	Contents     []core.Content   `json:"contents"`     // Conversation including tool calls / responses
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the final answer of one model call. Content may carry text,
// function calls or both.
type Response struct {
	ID           string       `json:"id"`
	Content      core.Content `json:"content"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted"
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by the orchestrator to drive generation.
// Generate emits zero or more responses and closes both channels when done.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// Collect drains a Generate call and returns the last response. A call that
// yields neither a response nor an error is reported as an error.
func Collect(ctx context.Context, m Model, req Request) (Response, error) {
	respCh, errCh := m.Generate(ctx, req)

	var (
		last Response
		got  bool
	)

	for respCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case resp, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			last, got = resp, true
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return Response{}, err
			}
		}
	}

	if !got {
		return Response{}, fmt.Errorf("model %s returned no response", m.Info().Name)
	}

	return last, nil
}

// Step is one scripted model turn: either a response or an error.
type Step struct {
	Response Response
	Err      error
}

// TextStep scripts a final text answer.
func TextStep(text string) Step {
	return Step{Response: Response{
		Content:      core.NewTextContent("assistant", text),
		FinishReason: "stop",
	}}
}

// ToolCallStep scripts a response requesting one or more function calls.
func ToolCallStep(calls ...core.FunctionCall) Step {
	parts := make([]core.Part, 0, len(calls))
	for _, c := range calls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: c})
	}
	return Step{Response: Response{
		Content:      core.Content{Role: "assistant", Parts: parts},
		FinishReason: "tool_calls",
	}}
}

// ErrorStep scripts a failed model call.
func ErrorStep(err error) Step { return Step{Err: err} }

// ScriptedModel is a lightweight in‑memory Model replaying scripted steps in
// order. When the script is exhausted it answers with Fallback text. Every
// received request is kept for assertions.
type ScriptedModel struct {
	mu       sync.Mutex
	info     Info
	steps    []Step
	requests []Request

	// Fallback is returned once all steps were consumed.
	Fallback string
}

// NewScriptedModel constructs a ScriptedModel with tool support enabled.
func NewScriptedModel(steps ...Step) *ScriptedModel {
	return &ScriptedModel{
		info:     Info{Name: "scripted", Provider: "scripted", SupportsTools: true},
		steps:    steps,
		Fallback: "👗 好的！",
	}
}

// Enqueue appends further steps to the script.
func (m *ScriptedModel) Enqueue(steps ...Step) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, steps...)
}

// Requests returns a copy of all requests received so far.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Generate implements Model.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 1)
	errCh := make(chan error, 1)

	m.mu.Lock()
	m.requests = append(m.requests, req)
	step := TextStep(m.Fallback)
	if len(m.steps) > 0 {
		step = m.steps[0]
		m.steps = m.steps[1:]
	}
	m.mu.Unlock()

	go func() {
		defer close(respCh)
		defer close(errCh)
		if err := ctx.Err(); err != nil {
			errCh <- err
			return
		}
		if step.Err != nil {
			errCh <- step.Err
			return
		}
		respCh <- step.Response
	}()

	return respCh, errCh
}

// Info implements Model interface.
func (m *ScriptedModel) Info() Info { return m.info }
