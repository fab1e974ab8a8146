// Package modelout extracts structured data from free-form generative
// model replies.
package modelout

import (
	"encoding/json"
	"fmt"
	"strings"

	"CrossPoster/internal/domain"
)

// StripFences removes a wrapping triple-backtick fence and an optional
// language tag. Unfenced text passes through trimmed.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimSpace(strings.Trim(text, "`"))
	if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
		text = strings.TrimSpace(text[4:])
	}
	return text
}

// Extract parses a JSON object out of a model reply: direct parse first,
// then the substring between the first '{' and the last '}' to recover
// JSON embedded in prose. Fences are stripped up front.
func Extract(raw string) (map[string]any, error) {
	text := StripFences(raw)

	var out map[string]any
	if err := json.Unmarshal([]byte(text), &out); err == nil {
		return out, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &out); err == nil {
			return out, nil
		}
	}

	return nil, fmt.Errorf("%w: no JSON object in model reply", domain.ErrModelOutput)
}

// Field reads a string field from an extracted mapping, empty when the
// key is absent or not a string.
func Field(fields map[string]any, key string) string {
	value, _ := fields[key].(string)
	return value
}
