package repository

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSONPayload locates the JSON object inside an LLM response,
// tolerating markdown code fences and leading/trailing prose: everything
// from the first '{' to the last '}' is taken as the payload.
func extractJSONPayload(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return cleaned[start : end+1], nil
}

func unmarshalLLMResponse(raw string, out interface{}) error {
	payload, err := extractJSONPayload(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("failed to unmarshal LLM response: %w", err)
	}
	return nil
}
