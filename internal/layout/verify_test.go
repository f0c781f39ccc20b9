package layout

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/legalpipe/legalpipe/constants"
	"github.com/legalpipe/legalpipe/internal/llm"
)

type scriptedClient struct {
	text string
	err  error
	res  llm.Result
}

func (s *scriptedClient) Ask(ctx context.Context, parts []llm.Part) (llm.Result, error) {
	if s.err != nil {
		return llm.Result{}, s.err
	}
	if s.res.Text != "" {
		return s.res, nil
	}
	return llm.Result{Text: s.text}, nil
}

func TestReduceJudgment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pass", "pass"},
		{"PASS", "pass"},
		{"The layout passes review.", "pass"},
		{"fail", "fail"},
		{"FAIL: heading missing", "fail"},
		{"the check failed, but mostly passes", "fail - unclear: the check failed, but mostly passes"},
		{"inconclusive", "fail - unclear: inconclusive"},
	}
	for _, tt := range tests {
		if got := ReduceJudgment(tt.in); got != tt.want {
			t.Errorf("ReduceJudgment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReduceJudgmentExcerptBounded(t *testing.T) {
	long := strings.Repeat("maybe ", 40)
	got := ReduceJudgment(long)
	if !strings.HasPrefix(got, "fail - unclear: ") {
		t.Fatalf("got %q", got)
	}
	if len(got) > len("fail - unclear: ")+80 {
		t.Errorf("excerpt not bounded: %d chars", len(got))
	}
}

func TestVerifyShortCircuits(t *testing.T) {
	v := &Verifier{Client: &scriptedClient{text: "pass"}, Prompt: "p", Logger: slog.Default()}

	if got := v.Verify(context.Background(), "", nil).Status; got != constants.VerificationFailEmptySanitized {
		t.Errorf("empty sanitized -> %q", got)
	}
	if got := v.Verify(context.Background(), "{not json", nil).Status; got != constants.VerificationFailDecode {
		t.Errorf("bad json -> %q", got)
	}
	got := v.Verify(context.Background(), `{"error":"JSONDecodeError","page_number":1}`, nil).Status
	if !strings.HasPrefix(got, "fail - input to verification was error object:") {
		t.Errorf("error object -> %q", got)
	}
}

func TestVerifyAPIFailure(t *testing.T) {
	v := &Verifier{Client: &scriptedClient{err: errors.New("boom")}, Prompt: "p", Logger: slog.Default()}
	got := v.Verify(context.Background(), `[{"tag":"Paragraph"}]`, []byte("%PDF")).Status
	if !strings.HasPrefix(got, "fail - verification API error:") {
		t.Errorf("api error -> %q", got)
	}
}

func TestVerifyPass(t *testing.T) {
	v := &Verifier{Client: &scriptedClient{text: "pass"}, Prompt: "p", Logger: slog.Default()}
	if got := v.Verify(context.Background(), `[{"tag":"Paragraph","content":"x"}]`, []byte("%PDF")).Status; got != "pass" {
		t.Errorf("status = %q, want pass", got)
	}
}
