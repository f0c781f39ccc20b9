package verifycontent

import (
	"log/slog"
	"testing"

	"github.com/legalpipe/legalpipe/internal/layout"
	"github.com/legalpipe/legalpipe/internal/pdftext"
)

func rectPtr(x0, y0, x1, y1 float64) *[4]float64 {
	r := [4]float64{x0, y0, x1, y1}
	return &r
}

func TestAttachHyperlinksMatch(t *testing.T) {
	blocks := []layout.Block{
		{"tag": "Paragraph", "content": "Please see section 3 for details.", "page_number": float64(1)},
	}
	links := []pdftext.Hyperlink{
		{AnchorText: "See section 3", URL: "https://x.example/s3", Rect: rectPtr(10, 20, 120, 32)},
	}

	AttachHyperlinks(blocks, links, slog.Default())

	hl, ok := blocks[0]["hyperlinks"].([]any)
	if !ok || len(hl) != 1 {
		t.Fatalf("hyperlinks = %v", blocks[0]["hyperlinks"])
	}
	m := hl[0].(map[string]any)
	if m["anchor_text"] != "See section 3" || m["url"] != "https://x.example/s3" {
		t.Errorf("attached link = %v", m)
	}
	if _, hasRect := m["rect"]; hasRect {
		t.Errorf("rect must not survive attachment")
	}
	if _, hasPage := blocks[0]["page_number"]; hasPage {
		t.Errorf("page_number must be stripped")
	}
}

func TestAttachHyperlinksNoFalsePositives(t *testing.T) {
	blocks := []layout.Block{
		{"tag": "Paragraph", "content": "Nothing related here."},
	}
	links := []pdftext.Hyperlink{
		{AnchorText: "See section 3", URL: "https://x.example/s3"},
		{AnchorText: "", URL: "https://x.example/empty-anchor"},
	}

	AttachHyperlinks(blocks, links, slog.Default())
	if _, ok := blocks[0]["hyperlinks"]; ok {
		t.Errorf("unexpected attachment: %v", blocks[0]["hyperlinks"])
	}
}

func TestAttachHyperlinksDedupes(t *testing.T) {
	blocks := []layout.Block{
		{"tag": "Paragraph", "content": "see appendix a and again see appendix a"},
	}
	links := []pdftext.Hyperlink{
		{AnchorText: "Appendix A", URL: "https://x.example/a"},
		{AnchorText: "Appendix A", URL: "https://x.example/a"},
		{AnchorText: "Appendix A", URL: "https://x.example/other"},
	}

	AttachHyperlinks(blocks, links, slog.Default())
	hl, _ := blocks[0]["hyperlinks"].([]any)
	if len(hl) != 2 {
		t.Fatalf("attached %d links, want 2 (dedup by anchor+url)", len(hl))
	}
}

func TestAttachHyperlinksRenamesLegacyKey(t *testing.T) {
	blocks := []layout.Block{
		{"tag": "Paragraph", "content": "see chapter two", "matched_hyperlinks": []any{"stale"}},
	}
	links := []pdftext.Hyperlink{
		{AnchorText: "Chapter Two", URL: "https://x.example/c2"},
	}

	AttachHyperlinks(blocks, links, slog.Default())
	if _, ok := blocks[0]["matched_hyperlinks"]; ok {
		t.Errorf("matched_hyperlinks key survived")
	}
	if _, ok := blocks[0]["hyperlinks"]; !ok {
		t.Errorf("hyperlinks missing after rename")
	}
}

func TestAttachHyperlinksCaseAndPunctuationInsensitive(t *testing.T) {
	blocks := []layout.Block{
		{"tag": "Paragraph", "content": "As provided in SECTION 9(b), notice is required."},
	}
	links := []pdftext.Hyperlink{
		{AnchorText: "section 9(b)", URL: "https://x.example/9b"},
	}

	AttachHyperlinks(blocks, links, slog.Default())
	if _, ok := blocks[0]["hyperlinks"]; !ok {
		t.Errorf("normalized match failed")
	}
}
