package anthropic

import (
	"testing"

	"github.com/hupe1980/ginny/core"
	"github.com/hupe1980/ginny/internal/testutil"
	"github.com/hupe1980/ginny/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages_ToolResultFollowsToolUse(t *testing.T) {
	contents := testutil.NewContentBuilder().
		User("我是 Johnny").
		Call("toolu_1", "mem0_memory", `{"action":"retrieve","user_id":"Johnny"}`).
		Response("toolu_1", "mem0_memory", "喜歡韓式風格", nil).
		Assistant("Johnny 你好！").
		Build()

	msgs := buildMessages(contents)
	require.Len(t, msgs, 4)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
	assert.Equal(t, "user", string(msgs[2].Role))
	require.Len(t, msgs[2].Content, 1)
	require.NotNil(t, msgs[2].Content[0].OfToolResult)
	assert.Equal(t, "toolu_1", msgs[2].Content[0].OfToolResult.ToolUseID)
	assert.Equal(t, "assistant", string(msgs[3].Role))
}

func TestSystemBlocks(t *testing.T) {
	req := model.Request{
		Instructions: "你是 Ginny",
		Contents:     []core.Content{core.NewTextContent("system", "extra")},
	}
	blocks := systemBlocks(req)
	require.Len(t, blocks, 2)
	assert.Equal(t, "你是 Ginny", blocks[0].Text)
	assert.Equal(t, "extra", blocks[1].Text)
}

func TestBuildTools(t *testing.T) {
	tools := buildTools([]model.ToolDefinition{{Type: "function", Function: model.FunctionDefinition{
		Name:        "weather",
		Description: "Look up weather",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{"city": map[string]any{"type": "string"}},
			"required":   []string{"city"},
		},
	}}})
	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].OfTool)
	assert.Equal(t, "weather", tools[0].OfTool.Name)
	assert.Equal(t, []string{"city"}, tools[0].OfTool.InputSchema.Required)
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "test"; o.Model = "claude-test" })
	info := m.Info()
	assert.Equal(t, "claude-test", info.Name)
	assert.Equal(t, "anthropic", info.Provider)
}
