package verifycontent

import (
	"log/slog"
	"testing"

	"github.com/legalpipe/legalpipe/constants"
	"github.com/legalpipe/legalpipe/internal/layout"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello,   World!", "hello world"},
		{"See Section 3.", "see section 3"},
		{"  (Whereas) the Party-of-the-First-Part…  ", "whereas the party of the first part…"},
		{"", ""},
		{"ALL CAPS\n\tAND\r\nLINES", "all caps and lines"},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVerifyBlocksSkipMarkers(t *testing.T) {
	f := NewFuzzyVerifier(88, 4, slog.Default())

	if got := f.VerifyBlocks(nil, "text"); got != constants.ContentVerificationEmpty {
		t.Errorf("empty -> %q", got)
	}
	errBlocks := []layout.Block{{"error": "chunk_level_error: boom"}}
	if got := f.VerifyBlocks(errBlocks, "text"); got != constants.ContentVerificationNotAList {
		t.Errorf("error block -> %q", got)
	}
}

func TestVerifyBlocksAnnotates(t *testing.T) {
	f := NewFuzzyVerifier(88, 4, slog.Default())
	pageText := "This Agreement is entered into by the parties. Notices must be in writing."
	blocks := []layout.Block{
		{"tag": "Paragraph", "content": "This Agreement is entered into by the parties."},
		{"tag": "Paragraph", "content": "Completely unrelated invented sentence about sailboats."},
		{"tag": "Heading", "content": "An"}, // below min length, untouched
	}

	status := f.VerifyBlocks(blocks, pageText)
	if status != constants.ContentVerificationAttempted {
		t.Fatalf("status = %q", status)
	}
	if blocks[0][KeyFuzzyStatus] != constants.FuzzyVerified {
		t.Errorf("exact content not verified: %v", blocks[0][KeyFuzzyStatus])
	}
	if blocks[1][KeyFuzzyStatus] != constants.FuzzyUnverified {
		t.Errorf("unrelated content verified: %v", blocks[1][KeyFuzzyStatus])
	}
	if _, ok := blocks[2][KeyFuzzyStatus]; ok {
		t.Errorf("short content should be skipped")
	}
}

// Lowering the threshold can only grow the verified set.
func TestFuzzyThresholdMonotonic(t *testing.T) {
	pageText := "The quick brown fox jumps over the lazy dog near the river bank."
	contents := []string{
		"The quick brown fox jumps over the lazy dog near the river bank.",
		"quick brown fox jumps over lazy dog",
		"a fox by the river",
		"entirely different words about contracts and clauses",
	}

	verifiedAt := func(threshold float64) map[int]bool {
		f := NewFuzzyVerifier(threshold, 4, slog.Default())
		blocks := make([]layout.Block, len(contents))
		for i, c := range contents {
			blocks[i] = layout.Block{"tag": "Paragraph", "content": c}
		}
		f.VerifyBlocks(blocks, pageText)
		out := make(map[int]bool)
		for i, b := range blocks {
			out[i] = b[KeyFuzzyStatus] == constants.FuzzyVerified
		}
		return out
	}

	high := verifiedAt(95)
	low := verifiedAt(40)
	for i, v := range high {
		if v && !low[i] {
			t.Errorf("block %d verified at 95 but not at 40", i)
		}
	}
}

func TestBestWindowScore(t *testing.T) {
	text := NormalizeText("Alpha beta gamma delta. Epsilon zeta eta theta. Iota kappa lambda.")
	toks := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta", "iota", "kappa", "lambda"}

	if got := BestWindowScore("epsilon zeta eta", text, toks); got != 100 {
		t.Errorf("substring score = %v, want 100", got)
	}
	if got := BestWindowScore("", text, toks); got != 0 {
		t.Errorf("empty content score = %v", got)
	}
	if got := BestWindowScore("zeta epsilon eta", text, toks); got < 80 {
		t.Errorf("token reorder score = %v, want >= 80", got)
	}
	if got := BestWindowScore("unrelated legal jargon entirely", text, toks); got > 60 {
		t.Errorf("unrelated score = %v, want <= 60", got)
	}
}

func TestTokenSetRatioBounds(t *testing.T) {
	for _, pair := range [][2]string{
		{"a b c", "a b c"},
		{"a b c", "c b a"},
		{"a", "completely different"},
		{"", "x"},
	} {
		got := tokenSetRatio(pair[0], pair[1])
		if got < 0 || got > 100 {
			t.Errorf("tokenSetRatio(%q,%q) = %v out of [0,100]", pair[0], pair[1], got)
		}
	}
	if got := tokenSetRatio("a b c", "c b a"); got != 100 {
		t.Errorf("reordered identical tokens = %v, want 100", got)
	}
}
