package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectIdentity(t *testing.T) {
	tests := []struct {
		utterance string
		want      string
	}{
		{"我是 Johnny，喜歡韓式風格", "Johnny"},
		{"我叫小美", "小美"},
		{"My name is Alice and I like denim", "Alice"},
		{"Hi, I'm Bob", "Bob"},
		{"I am Carol", "Carol"},
		{"I am happy today", ""},
		{"明天台北天氣如何", ""},
		{"幫我搭配上班服裝", ""},
		{"我是小美，想找約會穿搭", "小美"},
		{"我是王小明", "王小明"},
		{"我是說明天要去約會", ""},
		{"我是想問明天穿什麼", ""},
		{"我是學生，要去面試", ""},
		{"我是在問天氣", ""},
		{"我叫他明天再來", ""},
	}
	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectIdentity(tt.utterance))
		})
	}
}

func TestIntroductionPolicy(t *testing.T) {
	w, ok := IntroductionPolicy{}.Evaluate("  我是 Johnny，喜歡韓式風格 ", "current_user")
	require.True(t, ok)
	assert.Equal(t, "Johnny", w.UserID)
	assert.Equal(t, "我是 Johnny，喜歡韓式風格", w.Statement)

	_, ok = IntroductionPolicy{}.Evaluate("我需要穿搭建議", "current_user")
	assert.False(t, ok)

	_, ok = IntroductionPolicy{}.Evaluate("我是說明天要去約會", "current_user")
	assert.False(t, ok)
}

func TestNoPreferencePolicy(t *testing.T) {
	_, ok := NoPreferencePolicy{}.Evaluate("我是 Johnny", "u")
	assert.False(t, ok)

	custom := PreferencePolicyFunc(func(utterance, userID string) (PreferenceWrite, bool) {
		return PreferenceWrite{UserID: userID, Statement: utterance}, true
	})
	w, ok := custom.Evaluate("喜歡黑色", "u")
	assert.True(t, ok)
	assert.Equal(t, PreferenceWrite{UserID: "u", Statement: "喜歡黑色"}, w)
}

func TestInstruction(t *testing.T) {
	static := NewInstructionFromText("hello {{.UserID}}")
	assert.True(t, static.IsStatic())
	out, err := static.Resolve(context.Background(), PromptData{UserID: "Johnny"})
	require.NoError(t, err)
	assert.Equal(t, "hello Johnny", out)

	dyn := NewInstructionFromFunc(func(_ context.Context, d PromptData) (string, error) {
		return "prefs:" + d.Preferences[0], nil
	})
	assert.False(t, dyn.IsStatic())
	out, err = dyn.Resolve(context.Background(), PromptData{Preferences: []string{"韓式"}})
	require.NoError(t, err)
	assert.Equal(t, "prefs:韓式", out)
}

func TestGinnyPromptRenders(t *testing.T) {
	out, err := NewInstructionFromText(GinnyPrompt).Resolve(context.Background(), PromptData{})
	require.NoError(t, err)
	assert.Contains(t, out, "Ginny")
	assert.Contains(t, out, "目前的使用者 ID：current_user")
	assert.NotContains(t, out, "已記住的偏好")
}
