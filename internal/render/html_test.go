package render

import (
	"strings"
	"testing"

	"github.com/legalpipe/legalpipe/internal/artifacts"
	"github.com/legalpipe/legalpipe/internal/layout"
	"github.com/legalpipe/legalpipe/internal/metrics"
)

func TestBookHTMLNestsHeadings(t *testing.T) {
	book := []artifacts.BookPage{
		{
			Number: 1,
			Blocks: []layout.Block{
				{"tag": "h1", "content": "Agreement"},
				{"tag": "p", "content": "Preamble text."},
				{"tag": "h2", "content": "Definitions"},
				{"tag": "p", "content": "Terms used herein."},
				{"tag": "h2", "content": "Obligations"},
				{"tag": "p", "content": "Duties of the parties."},
			},
		},
	}
	out := BookHTML(book)

	if strings.Count(out, "<details open>") != 3 {
		t.Errorf("details count = %d, want 3", strings.Count(out, "<details open>"))
	}
	if strings.Count(out, "</details>") != 3 {
		t.Errorf("unbalanced details close: %d", strings.Count(out, "</details>"))
	}
	// The second h2 must close the first h2 before opening.
	defs := strings.Index(out, "Definitions")
	obl := strings.Index(out, "Obligations")
	closeBetween := strings.Index(out[defs:obl], "</details>")
	if closeBetween < 0 {
		t.Error("sibling h2 did not close previous section")
	}
}

func TestBookHTMLPromptVocabularyHeadings(t *testing.T) {
	book := []artifacts.BookPage{
		{
			Number: 1,
			Blocks: []layout.Block{
				{"tag": "PageHeader", "content": "MASTER SERVICES AGREEMENT"},
				{"tag": "Heading", "content": "Article I"},
				{"tag": "Paragraph", "content": "Scope of services."},
				{"tag": "Heading", "content": "Article II", "level": float64(3)},
				{"tag": "Paragraph", "content": "Payment terms."},
			},
		},
	}
	out := BookHTML(book)

	if strings.Count(out, "<details open>") != 3 {
		t.Fatalf("details count = %d, want 3", strings.Count(out, "<details open>"))
	}
	if !strings.Contains(out, "<h1>MASTER SERVICES AGREEMENT</h1>") {
		t.Error("PageHeader not rendered as h1")
	}
	if !strings.Contains(out, "<h2>Article I</h2>") {
		t.Error("Heading without level not rendered as h2")
	}
	if !strings.Contains(out, "<h3>Article II</h3>") {
		t.Error("Heading with level 3 not rendered as h3")
	}
	if strings.Contains(out, "<p>Article I</p>") {
		t.Error("heading fell through to paragraph rendering")
	}
}

func TestBookHTMLEscapesContent(t *testing.T) {
	book := []artifacts.BookPage{
		{Number: 1, Blocks: []layout.Block{
			{"tag": "p", "content": `<script>alert("x")</script>`},
		}},
	}
	out := BookHTML(book)
	if strings.Contains(out, "<script>alert") {
		t.Fatal("content not escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatal("escaped form missing")
	}
}

func TestBookHTMLListsTablesLinks(t *testing.T) {
	book := []artifacts.BookPage{
		{Number: 1, Blocks: []layout.Block{
			{"tag": "ul", "items": []any{"first", "second"}},
			{"tag": "table", "rows": []any{
				[]any{"Name", "Value"},
				[]any{"Term", "5 years"},
			}},
			{
				"tag": "p", "content": "See Exhibit A",
				"hyperlinks": []any{
					map[string]any{"anchor_text": "Exhibit A", "url": "https://example.com/a"},
				},
			},
		}},
	}
	out := BookHTML(book)
	for _, want := range []string{
		"<li>first</li>", "<li>second</li>",
		`<table class="data-table">`, "<td>Term</td>", "<td>5 years</td>",
		`<a href="https://example.com/a">Exhibit A</a>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestBookHTMLErrorBlock(t *testing.T) {
	book := []artifacts.BookPage{
		{Number: 1, Blocks: []layout.Block{
			{"error": "chunk_level_error: no pages"},
		}},
	}
	out := BookHTML(book)
	if !strings.Contains(out, "chunk_level_error: no pages") {
		t.Fatal("error block content missing")
	}
}

func TestMetricsHTMLTable(t *testing.T) {
	rows := []metrics.PageMetrics{
		{Page: 1, VerificationStatus: "pass", ChunkInfo: "chunk_1_pages_1-2"},
	}
	out := MetricsHTML(rows)
	if !strings.Contains(out, "<th>verification_status</th>") {
		t.Error("header missing")
	}
	if !strings.Contains(out, "<td>pass</td>") {
		t.Error("row value missing")
	}
	if !strings.Contains(out, "<td>chunk_1_pages_1-2</td>") {
		t.Error("chunk_info missing")
	}
}
