package layout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/legalpipe/legalpipe/constants"
	"github.com/legalpipe/legalpipe/internal/llm"
)

// Verifier asks vendor B for a pass/fail judgment on the sanitized JSON
// against the page itself.
type Verifier struct {
	Client llm.Client
	Prompt string
	Logger *slog.Logger
}

type VerifyOutcome struct {
	Result llm.Result
	Status string // one of the closed verification_status set
}

func (v *Verifier) Verify(ctx context.Context, sanitizedJSON string, pagePDF []byte) VerifyOutcome {
	if strings.TrimSpace(sanitizedJSON) == "" {
		return VerifyOutcome{Status: constants.VerificationFailEmptySanitized}
	}

	var decoded any
	if err := json.Unmarshal([]byte(sanitizedJSON), &decoded); err != nil {
		return VerifyOutcome{Status: constants.VerificationFailDecode}
	}
	if m, ok := decoded.(map[string]any); ok && llm.IsErrorDict(m) {
		return VerifyOutcome{
			Status: fmt.Sprintf("fail - input to verification was error object: %v", m["error"]),
		}
	}

	res, err := v.Client.Ask(ctx, []llm.Part{
		llm.TextPart(v.Prompt),
		llm.TextPart("Layout JSON:\n" + sanitizedJSON),
		llm.MediaPart("application/pdf", pagePDF),
	})
	if err != nil {
		v.Logger.Error("layout.verify.call_failed", "error", err)
		return VerifyOutcome{Result: res, Status: fmt.Sprintf("fail - verification API error: %v", err)}
	}

	status := ReduceJudgment(res.Text)
	v.Logger.Info("layout.verify.ok", "status", status)
	return VerifyOutcome{Result: res, Status: status}
}

// ReduceJudgment collapses free-text judgment into the closed status set.
// A clean pass requires "pass" without a competing "fail"; ambiguity keeps an
// excerpt for the metrics row.
func ReduceJudgment(text string) string {
	t := strings.ToLower(text)
	hasPass := strings.Contains(t, "pass")
	hasFail := strings.Contains(t, "fail")
	switch {
	case hasPass && !hasFail:
		return constants.VerificationPass
	case hasFail && !hasPass:
		return constants.VerificationFail
	default:
		return "fail - unclear: " + excerpt(text, 80)
	}
}

func excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
