package verifycontent

import (
	"log/slog"
	"strings"

	"github.com/legalpipe/legalpipe/internal/layout"
	"github.com/legalpipe/legalpipe/internal/pdftext"
)

// legacy key some model outputs carry; always renamed to "hyperlinks".
const legacyMatchedKey = "matched_hyperlinks"

// AttachHyperlinks scans the page's extracted links and attaches to each
// block the ones whose normalized anchor text appears inside the block's
// normalized content. Attached copies never carry the rect; duplicates by
// (anchor_text, url) collapse to the first occurrence. The legacy
// matched_hyperlinks key and per-block page_number are removed.
func AttachHyperlinks(blocks []layout.Block, links []pdftext.Hyperlink, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	attached := 0
	for _, b := range blocks {
		delete(b, legacyMatchedKey)
		delete(b, "page_number")

		content, ok := b.Content()
		if !ok || content == "" || len(links) == 0 {
			continue
		}
		normContent := NormalizeText(content)
		if normContent == "" {
			continue
		}

		type linkKey struct{ anchor, url string }
		seen := make(map[linkKey]struct{})
		var matches []any
		for _, l := range links {
			if l.URL == "" {
				continue
			}
			normAnchor := NormalizeText(l.AnchorText)
			if normAnchor == "" || !strings.Contains(normContent, normAnchor) {
				continue
			}
			k := linkKey{l.AnchorText, l.URL}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			matches = append(matches, map[string]any{
				"anchor_text": l.AnchorText,
				"url":         l.URL,
			})
		}
		if len(matches) > 0 {
			b["hyperlinks"] = matches
			attached += len(matches)
		}
	}
	logger.Debug("verifycontent.links", "page_links", len(links), "attached", attached)
}
