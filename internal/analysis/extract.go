package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoJSON is returned by ExtractJSON when the text contains no
// brace-delimited object at all.
var ErrNoJSON = errors.New("no JSON object in response")

// ExtractJSON pulls the first balanced brace-delimited object out of
// free-form model output and parses it. Models wrap JSON in prose and
// markdown fences; strict whole-response parsing would reject almost every
// real answer.
func ExtractJSON(text string) (map[string]any, error) {
	candidate, ok := firstJSONObject(text)
	if !ok {
		return nil, ErrNoJSON
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil, fmt.Errorf("parse extracted object: %w", err)
	}
	return out, nil
}

// firstJSONObject scans for the first '{' and returns the substring up to
// its balancing '}'. Braces inside string literals are skipped.
func firstJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
