package core

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_AppendKeepsAlignment(t *testing.T) {
	tr := NewTranscript()
	for i := 0; i < 5; i++ {
		tr.Append(NewUserTurn(fmt.Sprintf("u%d", i)), nil)
		assert.Equal(t, len(tr.Turns()), len(tr.ToolCallLog()))

		rec := NewToolCallRecord()
		rec.Add("mem0_memory", "[]", "")
		tr.Append(NewAssistantTurn(fmt.Sprintf("a%d", i)), rec)
		assert.Equal(t, len(tr.Turns()), len(tr.ToolCallLog()))
	}
	assert.Equal(t, 10, tr.Len())

	log := tr.ToolCallLog()
	assert.NotNil(t, log[0], "user turns carry an empty record")
	assert.Empty(t, log[0])
	assert.Contains(t, log[1], "mem0_memory")
}

func TestTranscript_ClearResetsEverything(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserTurn("hi"), nil)
	tr.Append(NewAssistantTurn("hello"), ToolCallRecord{"weather": {Output: "sunny"}})

	tr.Clear()

	assert.Empty(t, tr.All())
	assert.Empty(t, tr.Turns())
	assert.Empty(t, tr.ToolCallLog())
	assert.Equal(t, 0, tr.Len())

	tr.Clear()
	assert.Empty(t, tr.All())
}

func TestTranscript_AllReturnsCopies(t *testing.T) {
	tr := NewTranscript()
	rec := ToolCallRecord{"weather": {Output: "sunny"}}
	tr.Append(NewAssistantTurn("ok"), rec)

	rec["weather"] = ToolCallEntry{Output: "mutated"}
	all := tr.All()
	all[0].ToolCalls["weather"] = ToolCallEntry{Output: "mutated again"}

	require.Len(t, tr.All(), 1)
	assert.Equal(t, "sunny", tr.All()[0].ToolCalls["weather"].Output)
}

func TestTranscript_History(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserTurn("我明天要去約會"), nil)
	tr.Append(NewAssistantTurn("在哪個城市呢？"), nil)

	h := tr.History()
	require.Len(t, h, 2)
	assert.Equal(t, "user", h[0].Role)
	assert.Equal(t, "我明天要去約會", h[0].Text())
	assert.Equal(t, "assistant", h[1].Role)
}

func TestTranscript_ConcurrentAppendAndClear(t *testing.T) {
	tr := NewTranscript()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%10 == 0 {
				tr.Clear()
				return
			}
			tr.Append(NewUserTurn("x"), nil)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, len(tr.All()), len(tr.ToolCallLog()))
}

func TestToolCallRecord_AddMergesRepeatedCalls(t *testing.T) {
	rec := NewToolCallRecord()
	rec.Add("mem0_memory", "[]", "")
	rec.Add("mem0_memory", "stored", "")
	rec.Add("weather", "", "401 unauthorized")

	assert.Equal(t, "[]\nstored", rec["mem0_memory"].Output)
	assert.Empty(t, rec["mem0_memory"].Error)
	assert.Empty(t, rec["weather"].Output)
	assert.Equal(t, "401 unauthorized", rec["weather"].Error)
	assert.Equal(t, []string{"mem0_memory", "weather"}, rec.Names())
}

func TestToolCallRecord_CloneNil(t *testing.T) {
	var rec ToolCallRecord
	c := rec.Clone()
	assert.NotNil(t, c)
	assert.Empty(t, c)
}
