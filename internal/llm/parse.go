package llm

import (
	"encoding/json"
	"strings"
)

// RawPreviewLen bounds how much raw LLM output is kept on parse failures.
const RawPreviewLen = 200

// StripFences removes a surrounding markdown code fence (```json ... ```)
// if one is present. Inner fences are left alone.
func StripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	// drop the language tag on the opening fence line
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		first := strings.TrimSpace(t[:i])
		if first == "json" || first == "JSON" || first == "" {
			t = t[i+1:]
		}
	}
	if i := strings.LastIndex(t, "```"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// balancedFrom returns the balanced JSON value starting at s[start], which
// must be '{' or '['. The scan is string- and escape-aware.
func balancedFrom(s string, start int) (string, bool) {
	open := s[start]
	var close byte
	switch open {
	case '{':
		close = '}'
	case '[':
		close = ']'
	default:
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
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
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// ExtractJSON pulls the first parseable JSON array or object out of raw LLM
// text. Candidates are tried in order of appearance; the first one that both
// balances and parses wins. The cleaned candidate string is returned alongside
// the decoded value.
func ExtractJSON(raw string) (any, string, bool) {
	s := StripFences(raw)
	for i := 0; i < len(s); i++ {
		if s[i] != '{' && s[i] != '[' {
			continue
		}
		candidate, ok := balancedFrom(s, i)
		if !ok {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(candidate), &v); err == nil {
			return v, candidate, true
		}
	}
	return nil, "", false
}

// WrapPayload normalizes a decoded LLM value to a dict keyed payload.
// A list becomes {items: [...], page_number: N, _root_type: "list"}; a dict
// gets page_number injected when absent; anything else is a parse error.
func WrapPayload(v any, page int) (map[string]any, bool) {
	switch t := v.(type) {
	case []any:
		return map[string]any{
			"items":       t,
			"page_number": page,
			"_root_type":  "list",
		}, true
	case map[string]any:
		if _, ok := t["page_number"]; !ok {
			t["page_number"] = page
		}
		return t, true
	default:
		return nil, false
	}
}

// ErrorDict is the uniform parse/transport failure payload. Failure states
// are data, not exceptions.
func ErrorDict(kind, raw string, page int) map[string]any {
	preview := raw
	if len(preview) > RawPreviewLen {
		preview = preview[:RawPreviewLen]
	}
	return map[string]any{
		"error":              kind,
		"raw_output_preview": preview,
		"page_number":        page,
	}
}

// IsErrorDict reports whether a payload is an error dict.
func IsErrorDict(m map[string]any) bool {
	_, ok := m["error"]
	return ok
}
