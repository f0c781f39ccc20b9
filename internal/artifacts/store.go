// Package artifacts owns every file the pipeline writes under output_dir.
// All per-page state lives in genai_outputs/; document-level aggregates are
// built by re-reading those files so a resumed run sees the same data.
package artifacts

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/legalpipe/legalpipe/constants"
	"github.com/legalpipe/legalpipe/internal/layout"
	"github.com/legalpipe/legalpipe/internal/metrics"
	"github.com/legalpipe/legalpipe/internal/pdftext"
)

// Store reads and writes the per-page artifact files for one document run.
type Store struct {
	OutputDir string
	GenaiDir  string
	logger    *slog.Logger
}

// NewStore creates output_dir and output_dir/genai_outputs if missing.
func NewStore(outputDir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	genaiDir := filepath.Join(outputDir, constants.GenaiOutputsDir)
	if err := os.MkdirAll(genaiDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dirs: %w", err)
	}
	return &Store{OutputDir: outputDir, GenaiDir: genaiDir, logger: logger}, nil
}

func (s *Store) pagePath(page int, suffix string) string {
	return filepath.Join(s.GenaiDir, constants.PageArtifactName(page, suffix))
}

// DocumentPath resolves a document-level output file under OutputDir.
func (s *Store) DocumentPath(name string) string {
	return filepath.Join(s.OutputDir, name)
}

// WriteRaw stores a raw LLM response for a page. Satisfies layout.RawStore.
func (s *Store) WriteRaw(page int, suffix, text string) error {
	return os.WriteFile(s.pagePath(page, suffix), []byte(text), 0o644)
}

// ReadRaw returns a previously stored raw response, if present and non-empty.
// Satisfies layout.RawStore.
func (s *Store) ReadRaw(page int, suffix string) (string, bool) {
	data, err := os.ReadFile(s.pagePath(page, suffix))
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// WriteJSON persists v as indented JSON under the page's artifact name.
func (s *Store) WriteJSON(page int, suffix string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", suffix, err)
	}
	return os.WriteFile(s.pagePath(page, suffix), data, 0o644)
}

// ReadJSON loads a page artifact; ok is false when the file is missing or
// does not parse.
func (s *Store) ReadJSON(page int, suffix string) (any, bool) {
	data, err := os.ReadFile(s.pagePath(page, suffix))
	if err != nil {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("artifacts.read_json.parse_failed",
			"page", page, "suffix", suffix, "error", err)
		return nil, false
	}
	return v, true
}

// PagePathFor exposes the on-disk location of a page artifact.
func (s *Store) PagePathFor(page int, suffix string) string {
	return s.pagePath(page, suffix)
}

// WriteCrawl persists the rich-extractor view for a page.
func (s *Store) WriteCrawl(page int, richText string, links []pdftext.Hyperlink) error {
	hl := make([]map[string]any, 0, len(links))
	for _, l := range links {
		entry := map[string]any{
			"anchor_text": l.AnchorText,
			"url":         l.URL,
		}
		if l.Rect != nil {
			entry["rect"] = []float64{l.Rect[0], l.Rect[1], l.Rect[2], l.Rect[3]}
		}
		hl = append(hl, entry)
	}
	return s.WriteJSON(page, constants.ArtifactCrawl, map[string]any{
		"fitz_extracted_text":  richText,
		"extracted_hyperlinks": hl,
	})
}

// WriteFallbackText persists the chosen fallback text (may be empty).
func (s *Store) WriteFallbackText(page int, text string) error {
	return os.WriteFile(s.pagePath(page, constants.ArtifactFallbackText), []byte(text), 0o644)
}

// ReadCrawlLinks re-reads the persisted hyperlinks for a page.
func (s *Store) ReadCrawlLinks(page int) []pdftext.Hyperlink {
	v, ok := s.ReadJSON(page, constants.ArtifactCrawl)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	raw, _ := m["extracted_hyperlinks"].([]any)
	var out []pdftext.Hyperlink
	for _, e := range raw {
		em, ok := e.(map[string]any)
		if !ok {
			continue
		}
		link := pdftext.Hyperlink{}
		link.AnchorText, _ = em["anchor_text"].(string)
		link.URL, _ = em["url"].(string)
		if link.URL != "" {
			out = append(out, link)
		}
	}
	return out
}

// WritePageMetrics stores the per-page metrics row as a resume supplement.
func (s *Store) WritePageMetrics(m *metrics.PageMetrics) error {
	return s.WriteJSON(m.Page, constants.ArtifactPageMetrics, m.Map())
}

// ReadPageMetrics loads the stored metrics map for a page.
func (s *Store) ReadPageMetrics(page int) (map[string]any, bool) {
	v, ok := s.ReadJSON(page, constants.ArtifactPageMetrics)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// PageComplete reports whether a prior run finished this page: the stored
// metrics row shows a successful vendor-A call, usable fallback text, and a
// successful rich extraction, and both the genai and final_content artifacts
// parse. Used to skip pages on resume.
func (s *Store) PageComplete(page int) bool {
	m, ok := s.ReadPageMetrics(page)
	if !ok {
		return false
	}
	status, _ := m["gemini_api_status"].(float64)
	if int(status) != constants.APIStatusOK {
		return false
	}
	fb, _ := m["fallback_text_status"].(string)
	if fb != constants.FallbackSufficient && fb != constants.FallbackInsufficient {
		return false
	}
	fitz, _ := m["fitz_extraction_status"].(string)
	if fitz != string(constants.ExtractionSuccess) {
		return false
	}
	if _, ok := s.ReadJSON(page, constants.ArtifactGenai); !ok {
		return false
	}
	if _, ok := s.ReadJSON(page, constants.ArtifactFinalContent); !ok {
		return false
	}
	return true
}

// ReadFinalBlocks loads a page's post-annotation blocks, stripping rect from
// attached hyperlinks and any residual page_number.
func (s *Store) ReadFinalBlocks(page int) ([]layout.Block, bool) {
	v, ok := s.ReadJSON(page, constants.ArtifactFinalContent)
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	blocks := make([]layout.Block, 0, len(list))
	for _, e := range list {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		b := layout.Block(m)
		delete(b, "page_number")
		if hl, ok := b["hyperlinks"].([]any); ok {
			for _, h := range hl {
				if hm, ok := h.(map[string]any); ok {
					delete(hm, "rect")
				}
			}
		}
		blocks = append(blocks, b)
	}
	return blocks, true
}

// BookPage pairs a page number with its final blocks.
type BookPage struct {
	Number int
	Blocks []layout.Block
}

// CollectBook gathers final blocks for the given pages, ascending. Pages
// without a readable artifact are skipped.
func (s *Store) CollectBook(pages []int) []BookPage {
	sorted := append([]int(nil), pages...)
	sort.Ints(sorted)
	var out []BookPage
	for _, p := range sorted {
		blocks, ok := s.ReadFinalBlocks(p)
		if !ok {
			s.logger.Warn("artifacts.book.page_missing", "page", p)
			continue
		}
		out = append(out, BookPage{Number: p, Blocks: blocks})
	}
	return out
}

// WriteBookJSON emits book_output.json with page keys in numeric order.
// Keys are emitted manually so the file is byte-stable across runs.
func (s *Store) WriteBookJSON(book []BookPage) error {
	var sb strings.Builder
	sb.WriteString("{\n")
	for i, bp := range book {
		blockJSON, err := json.MarshalIndent(bp.Blocks, "  ", "  ")
		if err != nil {
			return fmt.Errorf("marshal page %d: %w", bp.Number, err)
		}
		sb.WriteString("  ")
		sb.WriteString(strconv.Quote(strconv.Itoa(bp.Number)))
		sb.WriteString(": ")
		sb.Write(blockJSON)
		if i < len(book)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
	return os.WriteFile(s.DocumentPath(constants.OutBookJSON), []byte(sb.String()), 0o644)
}

// WriteMasterJSON aggregates each page's final blocks and metrics row into
// layout_with_verification.json, pages ascending.
func (s *Store) WriteMasterJSON(book []BookPage) error {
	entries := make([]map[string]any, 0, len(book))
	for _, bp := range book {
		entry := map[string]any{
			"page":   bp.Number,
			"blocks": bp.Blocks,
		}
		if m, ok := s.ReadPageMetrics(bp.Number); ok {
			entry["metrics"] = m
		}
		entries = append(entries, entry)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal master: %w", err)
	}
	return os.WriteFile(s.DocumentPath(constants.OutMasterJSON), data, 0o644)
}
