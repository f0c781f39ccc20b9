package layout

import (
	"encoding/json"
	"testing"
)

func mustPayload(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

func TestSplitChunkPayloadPageKeys(t *testing.T) {
	payload := mustPayload(t, `{
		"Page1": [{"tag":"Heading","content":"A"}],
		"Page2": [{"tag":"Paragraph","content":"B"},{"tag":"Paragraph","content":"C"}]
	}`)

	b1, ok := SplitChunkPayload(payload, 1)
	if !ok || len(b1) != 1 || b1[0].Tag() != "Heading" {
		t.Errorf("page 1 = %v ok=%v", b1, ok)
	}
	b2, ok := SplitChunkPayload(payload, 2)
	if !ok || len(b2) != 2 {
		t.Errorf("page 2 = %v ok=%v", b2, ok)
	}
}

func TestSplitChunkPayloadItems(t *testing.T) {
	payload := mustPayload(t, `{
		"items": [
			{"tag":"Heading","content":"A","page_number":1},
			{"tag":"Paragraph","content":"B","page_number":2},
			{"tag":"Paragraph","content":"C","page_number":1}
		],
		"page_number": 1
	}`)

	b1, ok := SplitChunkPayload(payload, 1)
	if !ok || len(b1) != 2 {
		t.Fatalf("page 1 blocks = %d ok=%v, want 2", len(b1), ok)
	}
	b2, ok := SplitChunkPayload(payload, 2)
	if !ok || len(b2) != 1 {
		t.Fatalf("page 2 blocks = %d ok=%v, want 1", len(b2), ok)
	}
}

// A wrapped list response has items without page_number; they all belong to
// the payload's own page.
func TestSplitChunkPayloadWrappedList(t *testing.T) {
	payload := mustPayload(t, `{
		"items": [{"tag":"Paragraph","content":"Hello."},{"tag":"Paragraph","content":"World."}],
		"page_number": 3,
		"_root_type": "list"
	}`)

	b3, ok := SplitChunkPayload(payload, 3)
	if !ok || len(b3) != 2 {
		t.Fatalf("page 3 blocks = %d ok=%v, want 2", len(b3), ok)
	}
	if b0, _ := b3[0].Content(); b0 != "Hello." {
		t.Errorf("first block content = %q", b0)
	}
	if b4, ok := SplitChunkPayload(payload, 4); ok && len(b4) != 0 {
		t.Errorf("page 4 should get no items, got %v", b4)
	}
}

func TestSplitChunkPayloadSelfDict(t *testing.T) {
	payload := mustPayload(t, `{"tag":"Paragraph","content":"solo","page_number":5}`)
	blocks, ok := SplitChunkPayload(payload, 5)
	if !ok || len(blocks) != 1 {
		t.Fatalf("blocks = %v ok=%v", blocks, ok)
	}
	if c, _ := blocks[0].Content(); c != "solo" {
		t.Errorf("content = %q", c)
	}
}

func TestSplitChunkPayloadErrorDict(t *testing.T) {
	payload := mustPayload(t, `{"error":"Gemini API call failed","raw_output_preview":"","page_number":2}`)
	blocks, ok := SplitChunkPayload(payload, 2)
	if !ok || len(blocks) != 1 {
		t.Fatalf("blocks = %v ok=%v", blocks, ok)
	}
	if !blocks[0].IsError() {
		t.Errorf("expected error block, got %v", blocks[0])
	}
}

func TestSplitChunkPayloadNoMatch(t *testing.T) {
	payload := mustPayload(t, `{"something":"else"}`)
	if blocks, ok := SplitChunkPayload(payload, 1); ok {
		t.Errorf("expected no match, got %v", blocks)
	}
}

func TestStripBlockPageNumbers(t *testing.T) {
	blocks := []Block{
		{"tag": "Paragraph", "page_number": float64(1)},
		{"tag": "Heading"},
	}
	StripBlockPageNumbers(blocks)
	for i, b := range blocks {
		if _, ok := b["page_number"]; ok {
			t.Errorf("block %d still has page_number", i)
		}
	}
}

func TestBlockClone(t *testing.T) {
	b := Block{"tag": "List", "hyperlinks": []any{map[string]any{"url": "https://x"}}}
	c := b.Clone()
	c["tag"] = "Changed"
	c["hyperlinks"].([]any)[0].(map[string]any)["url"] = "https://y"
	if b.Tag() != "List" {
		t.Errorf("clone aliases tag")
	}
	if b["hyperlinks"].([]any)[0].(map[string]any)["url"] != "https://x" {
		t.Errorf("clone aliases nested map")
	}
}
