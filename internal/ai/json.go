package ai

import (
	"encoding/json"
	"strings"
)

// ExtractJSON strips markdown fences and surrounding prose from a model
// answer, returning the outermost JSON object or array.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	start := strings.IndexAny(raw, "{[")
	if start < 0 {
		return raw
	}

	closer := "}"
	if raw[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(raw, closer)
	if end < start {
		return raw
	}
	return raw[start : end+1]
}

// DecodeJSON reads the JSON document in raw into target, reporting failures
// as KindUnparsable.
func DecodeJSON(raw string, target any) error {
	cleaned := ExtractJSON(raw)
	if cleaned == "" {
		return &MalformedOutputError{Kind: KindUnparsable, Detail: "empty answer", Raw: raw}
	}
	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return &MalformedOutputError{Kind: KindUnparsable, Cause: err, Raw: raw}
	}
	return nil
}
