package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type weatherArgs struct {
	City    string `json:"city" description:"City name"`
	Mode    string `json:"mode,omitempty" enum:"current,forecast"`
	Days    *int   `json:"days"`
	Ignored string `json:"-"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(weatherArgs{})
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, props, 3)
	assert.Equal(t, map[string]any{"type": "string", "description": "City name"}, props["city"])
	assert.Equal(t, map[string]any{"type": "string", "enum": []string{"current", "forecast"}}, props["mode"])
	assert.Equal(t, map[string]any{"type": "integer"}, props["days"])
	assert.Equal(t, []string{"city"}, schema["required"])

	require.NoError(t, ValidateParameters(map[string]any{"city": "Taipei", "mode": "forecast"}, schema))
	require.Error(t, ValidateParameters(map[string]any{"city": "Taipei", "mode": "hourly"}, schema))
}

func TestCreateSchema_NonStruct(t *testing.T) {
	schema := CreateSchema("nope")
	assert.Equal(t, "object", schema["type"])
	assert.NotContains(t, schema, "required")
}

func TestValidateParameters_RequiredStringSlice(t *testing.T) {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"city": map[string]any{"type": "string"}},
		"required":   []string{"city"},
	}

	err := ValidateParameters(map[string]any{}, schema)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "city", vErr.Field)

	assert.NoError(t, ValidateParameters(map[string]any{"city": "Taipei"}, schema))
}

func TestValidateParameters_RequiredAnySlice(t *testing.T) {
	schema := map[string]any{
		"properties": map[string]any{"x": map[string]any{"type": "integer"}},
		"required":   []any{"x"},
	}
	assert.NoError(t, ValidateParameters(map[string]any{"x": 5.0}, schema))
	assert.Error(t, ValidateParameters(map[string]any{"x": "five"}, schema))
	assert.Error(t, ValidateParameters(map[string]any{}, schema))
}

func TestValidateParameters_Enum(t *testing.T) {
	schema := map[string]any{
		"properties": map[string]any{
			"action": map[string]any{"type": "string", "enum": []string{"retrieve", "store"}},
		},
	}
	assert.NoError(t, ValidateParameters(map[string]any{"action": "store"}, schema))

	err := ValidateParameters(map[string]any{"action": "delete"}, schema)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "action", vErr.Field)
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("plain <text>", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain <text>", out)

	out, err = RenderTemplate(`使用者：{{default "current_user" .UserID}}`, map[string]any{"UserID": ""})
	require.NoError(t, err)
	assert.Equal(t, "使用者：current_user", out)

	out, err = RenderTemplate(`{{join .Items "、"}}`, map[string]any{"Items": []string{"韓式", "簡約"}})
	require.NoError(t, err)
	assert.Equal(t, "韓式、簡約", out)

	_, err = RenderTemplate("{{.Broken", nil)
	assert.Error(t, err)
}
