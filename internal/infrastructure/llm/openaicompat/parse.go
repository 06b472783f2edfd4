package openaicompat

import (
	"encoding/json"
	"strings"
)

// parseJSONObject decodes a model response that should be a single JSON
// object. Models wrap output in markdown fences or leading prose often enough
// that one repair pass is allowed: strip fences, then salvage the largest
// brace-delimited substring. Anything still unparseable is the caller's
// failure to surface.
func parseJSONObject(raw string) (map[string]any, bool) {
	candidate := stripFences(raw)

	var out map[string]any
	if err := json.Unmarshal([]byte(candidate), &out); err == nil {
		return out, true
	}

	salvaged := extractJSONObject(candidate)
	if salvaged == candidate {
		return nil, false
	}
	if err := json.Unmarshal([]byte(salvaged), &out); err != nil {
		return nil, false
	}
	return out, true
}

func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
