package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONPayloadPlain(t *testing.T) {
	payload, err := extractJSONPayload(`{"title": "x"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"title": "x"}`, payload)
}

func TestExtractJSONPayloadCodeFence(t *testing.T) {
	raw := "```json\n{\"title\": \"x\"}\n```"
	payload, err := extractJSONPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"title": "x"}`, payload)
}

func TestExtractJSONPayloadSurroundingProse(t *testing.T) {
	raw := "Here is the result you asked for:\n{\"title\": \"x\"}\nLet me know if you need anything else."
	payload, err := extractJSONPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"title": "x"}`, payload)
}

func TestExtractJSONPayloadNoObject(t *testing.T) {
	_, err := extractJSONPayload("no json here")
	assert.Error(t, err)
}

func TestUnmarshalLLMResponse(t *testing.T) {
	raw := "```json\n{\"title\": \"Story\", \"key_points\": [\"a\", \"b\"]}\n```"

	var out struct {
		Title     string   `json:"title"`
		KeyPoints []string `json:"key_points"`
	}
	require.NoError(t, unmarshalLLMResponse(raw, &out))
	assert.Equal(t, "Story", out.Title)
	assert.Equal(t, []string{"a", "b"}, out.KeyPoints)
}

func TestUnmarshalLLMResponseInvalidJSON(t *testing.T) {
	var out map[string]interface{}
	assert.Error(t, unmarshalLLMResponse("{broken", &out))
}
