package layout

import (
	"fmt"
	"regexp"
)

var rePageKey = regexp.MustCompile(`^Page\d+$`)

// pageNumberOf reads a JSON page number, tolerating float64 and int.
func pageNumberOf(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	default:
		return 0, false
	}
}

func hasPageKeys(payload map[string]any) bool {
	for k := range payload {
		if rePageKey.MatchString(k) {
			return true
		}
	}
	return false
}

func toBlocks(items []any) []Block {
	blocks := make([]Block, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			blocks = append(blocks, Block(m))
		}
	}
	return blocks
}

// SplitChunkPayload pulls one page's block list out of a (possibly chunked)
// LLM payload. Resolution order:
//  1. a "Page<N>" key holding a list is that page's blocks;
//  2. an "items" list contributes the items addressed to the page (items
//     without their own page_number belong to the payload's page);
//  3. a dict whose own page_number matches and that has no Page*/items keys
//     is itself the single block;
//  4. a dict carrying "error" propagates as the page's sole block.
func SplitChunkPayload(payload map[string]any, page int) ([]Block, bool) {
	if payload == nil {
		return nil, false
	}

	if v, ok := payload[fmt.Sprintf("Page%d", page)].([]any); ok {
		return toBlocks(v), true
	}

	if items, ok := payload["items"].([]any); ok {
		payloadPage, payloadHasPage := pageNumberOf(payload["page_number"])
		var out []Block
		for _, it := range items {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if pn, has := pageNumberOf(m["page_number"]); has {
				if pn == page {
					out = append(out, Block(m))
				}
				continue
			}
			if !payloadHasPage || payloadPage == page {
				out = append(out, Block(m))
			}
		}
		return out, true
	}

	if pn, ok := pageNumberOf(payload["page_number"]); ok && pn == page && !hasPageKeys(payload) {
		if _, isErr := payload["error"]; !isErr {
			return []Block{Block(payload)}, true
		}
	}

	if _, ok := payload["error"]; ok {
		return []Block{Block(payload)}, true
	}

	return nil, false
}

// StripBlockPageNumbers removes the per-block page_number key; pages are keyed
// at the document level in the final artifact.
func StripBlockPageNumbers(blocks []Block) {
	for _, b := range blocks {
		delete(b, "page_number")
	}
}
