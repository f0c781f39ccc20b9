package layout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/legalpipe/legalpipe/constants"
	"github.com/legalpipe/legalpipe/internal/llm"
)

// Sanitizer normalizes a consolidated payload to strict schema conformance
// through a vendor-B call, then applies a deterministic local cleanup pass.
type Sanitizer struct {
	Client    llm.Client
	Prompt    string
	Validator *jsonschema.Schema // optional; violations are logged, not fatal
	Logger    *slog.Logger
}

type SanitizeOutcome struct {
	Result        llm.Result
	SanitizedJSON string
	Status        string // constants.SanitizeOK | constants.SanitizeFailed
	ErrMsg        string
}

// Sanitize reads the consolidated artifact from its durable path and returns
// sanitized JSON text. Output that does not parse as JSON is a step failure.
func (s *Sanitizer) Sanitize(ctx context.Context, consolidatedPath string) SanitizeOutcome {
	raw, err := os.ReadFile(consolidatedPath)
	if err != nil {
		return SanitizeOutcome{Status: constants.SanitizeFailed, ErrMsg: fmt.Sprintf("read consolidated: %v", err)}
	}

	res, err := s.Client.Ask(ctx, []llm.Part{
		llm.TextPart(s.Prompt),
		llm.TextPart(string(raw)),
	})
	if err != nil {
		s.Logger.Error("layout.sanitize.call_failed", "path", consolidatedPath, "error", err)
		return SanitizeOutcome{Result: res, Status: constants.SanitizeFailed, ErrMsg: err.Error()}
	}

	v, _, ok := llm.ExtractJSON(res.Text)
	if !ok {
		s.Logger.Warn("layout.sanitize.not_json", "path", consolidatedPath, "response_len", len(res.Text))
		return SanitizeOutcome{Result: res, Status: constants.SanitizeFailed, ErrMsg: "sanitizer output is not JSON"}
	}

	v = normalizeSanitized(v)

	if s.Validator != nil {
		if verr := s.Validator.Validate(v); verr != nil {
			// schema drift is recorded, not fatal: the verifier judges the result
			s.Logger.Warn("layout.sanitize.schema_violation", "path", consolidatedPath, "error", verr)
		}
	}

	out, err := json.Marshal(v)
	if err != nil {
		return SanitizeOutcome{Result: res, Status: constants.SanitizeFailed, ErrMsg: err.Error()}
	}
	return SanitizeOutcome{Result: res, SanitizedJSON: string(out), Status: constants.SanitizeOK}
}

// normalizeSanitized applies the deterministic part of sanitization: drops
// transient underscore-prefixed keys, coerces numeric content scalars to
// strings, trims string fields, and preserves block order throughout.
func normalizeSanitized(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if strings.HasPrefix(k, "_") {
				delete(t, k)
				continue
			}
			t[k] = normalizeSanitized(val)
		}
		if c, ok := t["content"]; ok {
			t["content"] = coerceScalarString(c)
		}
		if tag, ok := t["tag"].(string); ok {
			t["tag"] = strings.TrimSpace(tag)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeSanitized(e)
		}
		return t
	default:
		return v
	}
}

func coerceScalarString(v any) any {
	switch t := v.(type) {
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return v
	}
}
