// Package render produces the human-facing HTML views of a processed
// document: the collapsible book view and the metrics table.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/legalpipe/legalpipe/internal/artifacts"
	"github.com/legalpipe/legalpipe/internal/layout"
	"github.com/legalpipe/legalpipe/internal/metrics"
)

const bookHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Document Layout</title>
<style>
body { font-family: Georgia, serif; margin: 2rem auto; max-width: 60rem; }
details { margin-left: 1rem; }
summary h1, summary h2, summary h3, summary h4, summary h5, summary h6 { display: inline; }
table.data-table { border-collapse: collapse; margin: 0.5rem 0; }
table.data-table td, table.data-table th { border: 1px solid #999; padding: 0.25rem 0.5rem; }
ul.links { font-size: 0.85em; color: #336; }
</style>
</head>
<body>
`

const bookFooter = "</body>\n</html>\n"

// BookHTML renders the whole document as one hierarchical page. Heading
// blocks open nested <details> sections scoped by heading level; everything
// else renders inside the innermost open section.
func BookHTML(book []artifacts.BookPage) string {
	var sb strings.Builder
	sb.WriteString(bookHeader)

	// Stack of open <details> heading levels, outermost first.
	var open []int
	closeTo := func(level int) {
		for len(open) > 0 && open[len(open)-1] >= level {
			sb.WriteString("</details>\n")
			open = open[:len(open)-1]
		}
	}

	for _, page := range book {
		sb.WriteString(fmt.Sprintf("<!-- page %d -->\n", page.Number))
		for _, b := range page.Blocks {
			tag := strings.ToLower(strings.TrimSpace(b.Tag()))
			if level, isHeading := headingLevel(tag, b); isHeading {
				closeTo(level)
				content, _ := b.Content()
				hTag := fmt.Sprintf("h%d", level)
				sb.WriteString("<details open><summary>")
				sb.WriteString(fmt.Sprintf("<%s>%s</%s>", hTag, html.EscapeString(content), hTag))
				sb.WriteString("</summary>\n")
				writeHyperlinks(&sb, b)
				open = append(open, level)
				continue
			}
			writeBlock(&sb, tag, b)
		}
	}
	closeTo(1)
	sb.WriteString(bookFooter)
	return sb.String()
}

// headingLevel infers an h1..h6 level from the block's tag. Models emit
// either literal h-tags or the prompt vocabulary ("Heading", "PageHeader",
// "Title"); a numeric "level" field on the block refines the default.
func headingLevel(tag string, b layout.Block) (int, bool) {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0'), true
	}
	switch tag {
	case "title", "pageheader", "page_header":
		return 1, true
	case "heading", "header", "section_header":
		if lv, ok := b["level"].(float64); ok && lv >= 1 && lv <= 6 {
			return int(lv), true
		}
		if lv, ok := b["level"].(int); ok && lv >= 1 && lv <= 6 {
			return lv, true
		}
		return 2, true
	}
	return 0, false
}

func writeBlock(sb *strings.Builder, tag string, b layout.Block) {
	switch tag {
	case "ul", "ol", "list":
		writeList(sb, b)
	case "table":
		writeTable(sb, b)
	default:
		content, _ := b.Content()
		if errMsg, isErr := b["error"]; isErr {
			sb.WriteString(fmt.Sprintf("<p class=\"error\">%s</p>\n",
				html.EscapeString(fmt.Sprintf("%v", errMsg))))
			return
		}
		sb.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(content)))
	}
	writeHyperlinks(sb, b)
}

func writeList(sb *strings.Builder, b layout.Block) {
	sb.WriteString("<ul>\n")
	for _, item := range listItems(b) {
		sb.WriteString(fmt.Sprintf("<li>%s</li>\n", html.EscapeString(item)))
	}
	sb.WriteString("</ul>\n")
}

// listItems accepts either an explicit items array or newline-separated
// content, whichever the model produced.
func listItems(b layout.Block) []string {
	if raw, ok := b["items"].([]any); ok {
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch v := it.(type) {
			case string:
				out = append(out, v)
			case map[string]any:
				if c, ok := v["content"].(string); ok {
					out = append(out, c)
				}
			default:
				out = append(out, fmt.Sprintf("%v", v))
			}
		}
		return out
	}
	content, _ := b.Content()
	var out []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func writeTable(sb *strings.Builder, b layout.Block) {
	sb.WriteString("<table class=\"data-table\">\n")
	if rows, ok := b["rows"].([]any); ok {
		for _, r := range rows {
			cells, ok := r.([]any)
			if !ok {
				continue
			}
			sb.WriteString("<tr>")
			for _, c := range cells {
				sb.WriteString(fmt.Sprintf("<td>%s</td>", html.EscapeString(fmt.Sprintf("%v", c))))
			}
			sb.WriteString("</tr>\n")
		}
	} else {
		content, _ := b.Content()
		for _, line := range strings.Split(content, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			sb.WriteString("<tr>")
			for _, cell := range strings.Split(line, "|") {
				sb.WriteString(fmt.Sprintf("<td>%s</td>", html.EscapeString(strings.TrimSpace(cell))))
			}
			sb.WriteString("</tr>\n")
		}
	}
	sb.WriteString("</table>\n")
}

func writeHyperlinks(sb *strings.Builder, b layout.Block) {
	raw, ok := b["hyperlinks"].([]any)
	if !ok || len(raw) == 0 {
		return
	}
	sb.WriteString("<ul class=\"links\">\n")
	for _, h := range raw {
		hm, ok := h.(map[string]any)
		if !ok {
			continue
		}
		anchor, _ := hm["anchor_text"].(string)
		url, _ := hm["url"].(string)
		if url == "" {
			continue
		}
		if anchor == "" {
			anchor = url
		}
		sb.WriteString(fmt.Sprintf("<li><a href=\"%s\">%s</a></li>\n",
			html.EscapeString(url), html.EscapeString(anchor)))
	}
	sb.WriteString("</ul>\n")
}

// MetricsHTML renders the per-page metrics as a plain table.
func MetricsHTML(rows []metrics.PageMetrics) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>Page Metrics</title>\n")
	sb.WriteString("<style>table { border-collapse: collapse; } td, th { border: 1px solid #999; padding: 0.25rem 0.5rem; font-family: monospace; font-size: 0.8em; }</style>\n")
	sb.WriteString("</head>\n<body>\n<table class=\"data-table\">\n<tr>")
	for _, c := range metrics.Columns() {
		sb.WriteString(fmt.Sprintf("<th>%s</th>", html.EscapeString(c)))
	}
	sb.WriteString("</tr>\n")
	for i := range rows {
		sb.WriteString("<tr>")
		for _, cell := range rows[i].Row() {
			sb.WriteString(fmt.Sprintf("<td>%s</td>", html.EscapeString(cell)))
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>\n</body>\n</html>\n")
	return sb.String()
}
