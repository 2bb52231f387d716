package model

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/ginny/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedModel_ReplaysStepsInOrder(t *testing.T) {
	m := NewScriptedModel(
		ToolCallStep(core.FunctionCall{ID: "c1", Name: "weather", Arguments: `{"city":"Taipei"}`}),
		TextStep("穿薄外套"),
	)
	ctx := context.Background()

	first, err := Collect(ctx, m, Request{Instructions: "sys"})
	require.NoError(t, err)
	calls := first.Content.FunctionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "weather", calls[0].Name)
	assert.Equal(t, "tool_calls", first.FinishReason)

	second, err := Collect(ctx, m, Request{})
	require.NoError(t, err)
	assert.Equal(t, "穿薄外套", second.Content.Text())

	third, err := Collect(ctx, m, Request{})
	require.NoError(t, err)
	assert.Equal(t, m.Fallback, third.Content.Text())

	reqs := m.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, "sys", reqs[0].Instructions)
}

func TestScriptedModel_ErrorStep(t *testing.T) {
	boom := errors.New("boom")
	m := NewScriptedModel(ErrorStep(boom))
	_, err := Collect(context.Background(), m, Request{})
	assert.ErrorIs(t, err, boom)
}

func TestCollect_CancelledContext(t *testing.T) {
	m := NewScriptedModel(TextStep("never"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Collect(ctx, m, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

type silentModel struct{}

func (silentModel) Generate(context.Context, Request) (<-chan Response, <-chan error) {
	r := make(chan Response)
	e := make(chan error)
	close(r)
	close(e)
	return r, e
}

func (silentModel) Info() Info { return Info{Name: "silent"} }

func TestCollect_NoResponse(t *testing.T) {
	_, err := Collect(context.Background(), silentModel{}, Request{})
	assert.Error(t, err)
}
