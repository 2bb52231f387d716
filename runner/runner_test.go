package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/ginny/agent"
	"github.com/hupe1980/ginny/core"
	"github.com/hupe1980/ginny/memory"
	"github.com/hupe1980/ginny/model"
	"github.com/hupe1980/ginny/tool"
	"github.com/hupe1980/ginny/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	calls    atomic.Int32
	active   atomic.Int32
	overlap  atomic.Bool
	delay    time.Duration
	sessions []string
	mu       sync.Mutex
	history  [][]core.Content
	users    []string
}

func (h *stubHandler) HandleTurn(ctx context.Context, utterance, userID string, history ...core.Content) (string, core.ToolCallRecord) {
	if h.active.Add(1) > 1 {
		h.overlap.Store(true)
	}
	defer h.active.Add(-1)
	h.calls.Add(1)

	h.mu.Lock()
	h.sessions = append(h.sessions, agent.SessionIDFromContext(ctx))
	h.history = append(h.history, history)
	h.users = append(h.users, userID)
	h.mu.Unlock()

	if h.delay > 0 {
		time.Sleep(h.delay)
	}
	rec := core.NewToolCallRecord()
	rec.Add("mem0_memory", "no stored preferences for "+userID, "")
	return "echo: " + utterance, rec
}

func TestRun_AppendsUserAndAssistantTurns(t *testing.T) {
	h := &stubHandler{}
	r := New(h, func(o *Options) { o.UserID = "Johnny" })

	res, err := r.Run(context.Background(), "s1", "我明天要去約會，該穿什麼？")
	require.NoError(t, err)
	assert.Equal(t, "echo: 我明天要去約會，該穿什麼？", res.Reply)
	assert.Contains(t, res.ToolCalls, "mem0_memory")

	entries, err := r.Transcript("s1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, core.RoleUser, entries[0].Turn.Role)
	assert.Empty(t, entries[0].ToolCalls)
	assert.NotNil(t, entries[0].ToolCalls)
	assert.Equal(t, core.RoleAssistant, entries[1].Turn.Role)
	assert.Contains(t, entries[1].ToolCalls, "mem0_memory")

	assert.Equal(t, []string{"s1"}, h.sessions)
	assert.Equal(t, []string{"Johnny"}, h.users)
}

func TestRun_EmptyInputIsNoOp(t *testing.T) {
	h := &stubHandler{}
	r := New(h)

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := r.Run(context.Background(), "s1", in)
		assert.ErrorIs(t, err, core.ErrEmptyInput)
	}

	entries, err := r.Transcript("s1")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, int32(0), h.calls.Load())
}

func TestRun_PassesPriorTurnsAsHistory(t *testing.T) {
	h := &stubHandler{}
	r := New(h)

	_, _ = r.Run(context.Background(), "s1", "first")
	_, _ = r.Run(context.Background(), "s1", "second")

	require.Len(t, h.history, 2)
	assert.Empty(t, h.history[0])
	require.Len(t, h.history[1], 2)
	assert.Equal(t, "first", h.history[1][0].Text())
	assert.Equal(t, "echo: first", h.history[1][1].Text())
}

func TestRun_SerializesTurnsWithinSession(t *testing.T) {
	h := &stubHandler{delay: 10 * time.Millisecond}
	r := New(h)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = r.Run(context.Background(), "shared", fmt.Sprintf("msg %d", i))
		}(i)
	}
	wg.Wait()

	assert.False(t, h.overlap.Load())
	entries, _ := r.Transcript("shared")
	assert.Len(t, entries, 10)
	for i, e := range entries {
		if i%2 == 0 {
			assert.Equal(t, core.RoleUser, e.Turn.Role)
		} else {
			assert.Equal(t, core.RoleAssistant, e.Turn.Role)
		}
	}
}

func TestClear(t *testing.T) {
	r := New(&stubHandler{})
	_, _ = r.Run(context.Background(), "s1", "hello")
	_, _ = r.Run(context.Background(), "s2", "hello")

	require.NoError(t, r.Clear("s1"))

	s1, _ := r.Transcript("s1")
	s2, _ := r.Transcript("s2")
	assert.Empty(t, s1)
	assert.Len(t, s2, 2)

	sess, err := r.Session("s1")
	require.NoError(t, err)
	assert.Equal(t, len(sess.Transcript().Turns()), len(sess.Transcript().ToolCallLog()))
}

func TestClose(t *testing.T) {
	r := New(&stubHandler{})
	_, _ = r.Run(context.Background(), "s1", "hello")
	require.NoError(t, r.Close("s1"))

	entries, err := r.Transcript("s1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_EndToEndWithOrchestrator(t *testing.T) {
	store := memory.NewInMemoryStore()
	m := model.NewScriptedModel(
		model.TextStep("Johnny 你好！記住你喜歡韓式風格了 💕"),
		model.ToolCallStep(core.FunctionCall{ID: "c1", Name: tool.WeatherToolName, Arguments: `{"city":"Taipei","mode":"forecast"}`}),
		model.TextStep("抱歉，暫時查不到天氣，建議帶把傘 ☂️"),
	)
	o := agent.New(m, store, weather.Unavailable{})
	r := New(o)

	res, err := r.Run(context.Background(), "web-1", "我是 Johnny，喜歡韓式風格")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Reply)
	assert.Contains(t, res.ToolCalls, tool.PreferenceToolName)

	prefs, _ := store.Get(context.Background(), "Johnny")
	require.Len(t, prefs, 1)
	assert.Contains(t, prefs[0], "韓式風格")

	res, err = r.Run(context.Background(), "web-1", "明天台北天氣如何")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Reply)
	assert.NotEmpty(t, res.ToolCalls[tool.WeatherToolName].Error)
	assert.Empty(t, res.ToolCalls[tool.WeatherToolName].Output)

	entries, _ := r.Transcript("web-1")
	assert.Len(t, entries, 4)

	reqs := m.Requests()
	require.Len(t, reqs, 3)
	assert.Len(t, reqs[1].Contents, 3)
}
