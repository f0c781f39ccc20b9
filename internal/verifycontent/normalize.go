package verifycontent

import "strings"

// punctuation stripped during normalization; keeps letters, digits and
// intra-word characters that matter for anchors (nothing does, currently).
const punctuation = `.,;:!?"'()[]{}<>/\|@#$%^&*_~` + "`" + `“”‘’«»—–-`

// NormalizeText lowercases, strips common punctuation and collapses internal
// whitespace. Both fuzzy verification and hyperlink matching use this exact
// normalization so their views of "same text" agree.
func NormalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if strings.ContainsRune(punctuation, r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
