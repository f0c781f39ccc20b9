package verifycontent

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/legalpipe/legalpipe/constants"
	"github.com/legalpipe/legalpipe/internal/layout"
)

// Per-block annotation keys written by the fuzzy verifier.
const (
	KeyFuzzyStatus = "fuzzy_match_status"
	KeyFuzzyScore  = "fuzzy_match_score"
)

// FuzzyVerifier tags each block with whether its content appears (fuzzily)
// in the page's verification text.
type FuzzyVerifier struct {
	Threshold     float64 // percentage cutoff, 0..100
	MinContentLen int     // skip normalized content shorter than this
	Logger        *slog.Logger
}

func NewFuzzyVerifier(threshold float64, minContentLen int, logger *slog.Logger) *FuzzyVerifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &FuzzyVerifier{Threshold: threshold, MinContentLen: minContentLen, Logger: logger}
}

// VerifyBlocks annotates blocks in place and returns the page-level
// content_verification_status.
func (f *FuzzyVerifier) VerifyBlocks(blocks []layout.Block, verificationText string) string {
	if len(blocks) == 0 {
		return constants.ContentVerificationEmpty
	}
	if len(blocks) == 1 && blocks[0].IsError() {
		return constants.ContentVerificationNotAList
	}

	normText := NormalizeText(verificationText)
	textTokens := strings.Fields(normText)

	verified, checked := 0, 0
	for _, b := range blocks {
		content, ok := b.Content()
		if !ok || content == "" {
			continue
		}
		norm := NormalizeText(content)
		if len(norm) < f.MinContentLen {
			continue
		}
		checked++
		score := BestWindowScore(norm, normText, textTokens)
		b[KeyFuzzyScore] = score
		if score >= f.Threshold {
			b[KeyFuzzyStatus] = constants.FuzzyVerified
			verified++
		} else {
			b[KeyFuzzyStatus] = constants.FuzzyUnverified
		}
	}

	f.Logger.Debug("verifycontent.fuzzy", "blocks", len(blocks), "checked", checked, "verified", verified)
	return constants.ContentVerificationAttempted
}

// BestWindowScore slides a token window over the verification text and keeps
// the best token-set similarity with the normalized content. An exact
// substring short-circuits to 100.
func BestWindowScore(normContent, normText string, textTokens []string) float64 {
	if normContent == "" || normText == "" {
		return 0
	}
	if strings.Contains(normText, normContent) {
		return 100
	}

	contentTokens := strings.Fields(normContent)
	window := len(contentTokens)
	if window < 1 {
		window = 1
	}
	step := window / 2
	if step < 1 {
		step = 1
	}

	best := 0.0
	for start := 0; start < len(textTokens); start += step {
		end := start + window
		if end > len(textTokens) {
			end = len(textTokens)
		}
		score := tokenSetRatio(normContent, strings.Join(textTokens[start:end], " "))
		if score > best {
			best = score
		}
		if end == len(textTokens) {
			break
		}
	}
	return best
}

// tokenSetRatio mirrors the classic token-set similarity: compare the sorted
// token intersection against each side's remainder and keep the best pairwise
// edit-distance ratio, as a percentage.
func tokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var inter, restA, restB []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			inter = append(inter, tok)
		} else {
			restA = append(restA, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			restB = append(restB, tok)
		}
	}
	sort.Strings(inter)
	sort.Strings(restA)
	sort.Strings(restB)

	s0 := strings.Join(inter, " ")
	s1 := strings.TrimSpace(s0 + " " + strings.Join(restA, " "))
	s2 := strings.TrimSpace(s0 + " " + strings.Join(restB, " "))

	lev := metrics.NewLevenshtein()
	best := 0.0
	for _, pair := range [][2]string{{s0, s1}, {s0, s2}, {s1, s2}} {
		if pair[0] == "" && pair[1] == "" {
			continue
		}
		if s := strutil.Similarity(pair[0], pair[1], lev) * 100; s > best {
			best = s
		}
	}
	return best
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		out[tok] = struct{}{}
	}
	return out
}
