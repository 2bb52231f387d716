package testutil

import (
	"github.com/hupe1980/ginny/core"
)

// ContentBuilder provides a fluent helper for constructing a conversation as
// a []core.Content in tests.
// Example:
//
//	contents := NewContentBuilder().User("hi").Call("c1", "weather", `{"city":"Taipei"}`).Response("c1", "weather", "sunny", nil).Assistant("ok").Build()
type ContentBuilder struct {
	contents []core.Content
}

// NewContentBuilder creates an empty builder.
func NewContentBuilder() *ContentBuilder { return &ContentBuilder{} }

// User appends a user text content (chainable).
func (b *ContentBuilder) User(t string) *ContentBuilder {
	b.contents = append(b.contents, core.NewTextContent("user", t))
	return b
}

// Assistant appends an assistant text content (chainable).
func (b *ContentBuilder) Assistant(t string) *ContentBuilder {
	b.contents = append(b.contents, core.NewTextContent("assistant", t))
	return b
}

// System appends a system text content (chainable).
func (b *ContentBuilder) System(t string) *ContentBuilder {
	b.contents = append(b.contents, core.NewTextContent("system", t))
	return b
}

// Call appends a function call part. Consecutive calls share one assistant
// content (chainable).
func (b *ContentBuilder) Call(id, name, args string) *ContentBuilder {
	part := core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: id, Name: name, Arguments: args}}
	if n := len(b.contents); n > 0 && b.contents[n-1].Role == "assistant" && len(b.contents[n-1].FunctionCalls()) > 0 {
		b.contents[n-1].Parts = append(b.contents[n-1].Parts, part)
		return b
	}
	b.contents = append(b.contents, core.Content{Role: "assistant", Parts: []core.Part{part}})
	return b
}

// Response appends a function response. Consecutive responses share one tool
// content (chainable).
func (b *ContentBuilder) Response(id, name, result string, err error) *ContentBuilder {
	fr := core.FunctionResponse{ID: id, Name: name, Response: result}
	if err != nil {
		fr.Error = err.Error()
	}
	part := core.FunctionResponsePart{FunctionResponse: fr}
	if n := len(b.contents); n > 0 && b.contents[n-1].Role == "tool" {
		b.contents[n-1].Parts = append(b.contents[n-1].Parts, part)
		return b
	}
	b.contents = append(b.contents, core.Content{Role: "tool", Parts: []core.Part{part}})
	return b
}

// Build returns a copy of the assembled contents.
func (b *ContentBuilder) Build() []core.Content {
	out := make([]core.Content, len(b.contents))
	copy(out, b.contents)
	return out
}
