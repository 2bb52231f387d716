package core

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/hupe1980/ginny/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func TestToolContext_Accessors(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	tc := NewToolContext(ctx, "sess-1", "Johnny", "fc-1", nil)

	assert.Equal(t, "v", tc.Context().Value(ctxKey{}))
	assert.Equal(t, "sess-1", tc.SessionID())
	assert.Equal(t, "Johnny", tc.UserID())
	assert.Equal(t, "fc-1", tc.FunctionCallID())
	assert.IsType(t, logging.NoOpLogger{}, tc.Logger())

	// logging helpers must not panic with the substituted no-op logger
	tc.LogInfo("info")
	tc.LogError("error", "k", "v")
}

func TestToolContext_NilContextDefaults(t *testing.T) {
	//nolint:staticcheck // nil context is tolerated on purpose
	tc := NewToolContext(nil, "", "u", "", logging.NoOpLogger{})
	assert.NotNil(t, tc.Context())
}

func TestToolContext_LogAttachesIDs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelDebug, Format: "json", Output: buf})
	tc := NewToolContext(context.Background(), "sess-1", "Johnny", "fc-1", logger)

	tc.LogWarn("weather.failed", "city", "Taipei")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "weather.failed", entry["msg"])
	assert.Equal(t, "sess-1", entry["session_id"])
	assert.Equal(t, "Johnny", entry["user_id"])
	assert.Equal(t, "fc-1", entry["fc_id"])
	assert.Equal(t, "Taipei", entry["city"])
}
