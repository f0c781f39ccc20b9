package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/legalpipe/legalpipe/constants"
	"github.com/legalpipe/legalpipe/internal/artifacts"
	"github.com/legalpipe/legalpipe/internal/layout"
	"github.com/legalpipe/legalpipe/internal/metrics"
	"github.com/legalpipe/legalpipe/internal/pdftext"
	"github.com/legalpipe/legalpipe/internal/verifycontent"
)

// processPage runs one page through the state machine. The chunk-level ask
// outcomes are shared across the chunk's pages; their usage is recorded on
// every row.
func (p *Pipeline) processPage(ctx context.Context, store *artifacts.Store, fuzzy *verifycontent.FuzzyVerifier, pdfPath, tempDir string, page int, chunkInfo string, outA layout.AskOutcome, durA float64, outB layout.AskOutcome, durB float64) metrics.PageMetrics {
	start := time.Now()
	m := metrics.PageMetrics{Page: page, ChunkInfo: chunkInfo}

	m.GeminiAPIStatus = outA.APIStatus
	m.GeminiResponseLength = len(outA.Result.Text)
	m.GeminiErrorMessage = outA.ErrMsg
	m.GeminiInputTokens = outA.Result.InputTokens
	m.GeminiOutputTokens = outA.Result.OutputTokens
	m.GeminiCostUSD = outA.Result.CostUSD
	m.TimeSecGeminiLayout = durA

	m.OpenAIAPIStatus = outB.APIStatus
	m.OpenAIResponseLength = len(outB.Result.Text)
	m.OpenAIErrorMessage = outB.ErrMsg
	m.OpenAIInputTokens = outB.Result.InputTokens
	m.OpenAIOutputTokens = outB.Result.OutputTokens
	m.OpenAICostUSD = outB.Result.CostUSD
	m.TimeSecOpenAILayout = durB

	// INIT -> TEMP_READY
	tTemp := time.Now()
	pagePath := filepath.Join(tempDir, fmt.Sprintf("page_%d_%s.pdf", page, uuid.NewString()))
	tempErr := p.Splitter.WritePageRange(pdfPath, pagePath, page, page)
	m.TimeSecTempPDFCreation = time.Since(tTemp).Seconds()
	if tempErr != nil {
		p.Logger.Error("pipeline.page.temp_pdf_failed", "page", page, "error", tempErr)
		p.failPage(store, &m, "temp_chunk_pdf_missing")
		m.TimeSecTotalPageProcessing = time.Since(start).Seconds()
		return m
	}
	defer func() { _ = os.Remove(pagePath) }()

	pagePDF, err := os.ReadFile(pagePath)
	if err != nil {
		p.Logger.Error("pipeline.page.temp_pdf_unreadable", "page", page, "error", err)
		p.failPage(store, &m, "temp_chunk_pdf_missing")
		m.TimeSecTotalPageProcessing = time.Since(start).Seconds()
		return m
	}

	// TEMP_READY -> EXTRACTED
	pt := p.extractPage(ctx, pagePath, page, &m)
	links := pt.Rich.Links
	if pt.Rich.Status == constants.ExtractionFailed {
		// keep a prior run's crawl artifact; its links still serve annotation
		if prior := store.ReadCrawlLinks(page); len(prior) > 0 {
			p.Logger.Info("pipeline.page.crawl_links_recovered", "page", page, "links", len(prior))
			links = prior
		}
	} else if err := store.WriteCrawl(page, pt.Rich.Text, pt.Rich.Links); err != nil {
		p.Logger.Warn("pipeline.page.crawl_persist_failed", "page", page, "error", err)
	}
	if err := store.WriteFallbackText(page, pt.FallbackText); err != nil {
		p.Logger.Warn("pipeline.page.fallback_persist_failed", "page", page, "error", err)
	}

	gBlocks := splitOrEmpty(outA.Payload, page)
	oBlocks := splitOrEmpty(outB.Payload, page)

	// ASKED -> CONSOLIDATED
	consolidatedPath := store.PagePathFor(page, constants.ArtifactConsolidated)
	p.consolidatePage(ctx, store, pagePDF, page, gBlocks, oBlocks, &m)

	// CONSOLIDATED -> SANITIZED
	sanitizedJSON := p.sanitizePage(ctx, store, consolidatedPath, page, &m)

	// SANITIZED -> VERIFIED
	tVer := time.Now()
	vo := p.Verifier.Verify(ctx, sanitizedJSON, pagePDF)
	m.TimeSecVerification = time.Since(tVer).Seconds()
	m.VerificationStatus = vo.Status
	m.VerificationInputTokens = vo.Result.InputTokens
	m.VerificationOutputTokens = vo.Result.OutputTokens
	m.VerificationCostUSD = vo.Result.CostUSD

	// VERIFIED -> ANNOTATED
	blocks := blocksFromSanitized(sanitizedJSON)
	if err := store.WriteJSON(page, constants.ArtifactGenai, blocks); err != nil {
		p.Logger.Warn("pipeline.page.genai_persist_failed", "page", page, "error", err)
	}

	// annotation mutates; work on clones so the genai list stays pristine
	final := make([]layout.Block, len(blocks))
	for i, b := range blocks {
		final[i] = b.Clone()
	}
	m.ContentVerificationStatus = fuzzy.VerifyBlocks(final, pt.VerificationText)
	verifycontent.AttachHyperlinks(final, links, p.Logger)
	layout.StripBlockPageNumbers(final)

	// ANNOTATED -> PERSISTED
	if err := store.WriteJSON(page, constants.ArtifactFinalContent, final); err != nil {
		p.Logger.Error("pipeline.page.final_persist_failed", "page", page, "error", err)
	}

	m.TimeSecTotalPageProcessing = time.Since(start).Seconds()
	p.Logger.Info("pipeline.page.done",
		"page", page,
		"verification_status", m.VerificationStatus,
		"content_verification_status", m.ContentVerificationStatus,
		"blocks", len(blocks),
	)
	return m
}

// extractPage runs the three extractors and records their statuses.
func (p *Pipeline) extractPage(ctx context.Context, pagePath string, page int, m *metrics.PageMetrics) pdftext.PageText {
	native := p.Extractors.Native.Extract(ctx, pagePath)
	ocr := p.Extractors.OCR.Extract(ctx, pagePath)
	rich := p.Extractors.Rich.Extract(ctx, pagePath)
	pt := pdftext.Assemble(native, ocr, rich,
		p.Config.Text.MinDirectLen, p.Config.Text.MinFitzLen)

	m.Pypdf2Status = string(pt.Native.Status)
	m.Pypdf2CharCount = pt.Native.CharCount()
	m.OCRStatus = string(pt.OCR.Status)
	m.OCRCharCount = pt.OCR.CharCount()
	m.FitzExtractionStatus = string(pt.Rich.Status)
	m.FitzTextCharCount = pt.Rich.CharCount()
	m.FitzLinkCount = len(pt.Rich.Links)
	m.FallbackTextMethodUsed = pt.FallbackMethod
	m.FallbackTextStatus = pt.FallbackStatus
	m.FallbackTextCharCount = len(pt.FallbackText)
	m.VerificationTextSource = pt.VerificationSource

	p.Logger.Debug("pipeline.page.extracted",
		"page", page,
		"native_chars", m.Pypdf2CharCount,
		"ocr_chars", m.OCRCharCount,
		"fitz_chars", m.FitzTextCharCount,
		"fallback_method", m.FallbackTextMethodUsed,
	)
	return pt
}

// consolidatePage reuses a stored consolidated artifact when present, else
// calls the consolidator and persists the result (usage keys stripped).
func (p *Pipeline) consolidatePage(ctx context.Context, store *artifacts.Store, pagePDF []byte, page int, gBlocks, oBlocks []layout.Block, m *metrics.PageMetrics) {
	if v, ok := store.ReadJSON(page, constants.ArtifactConsolidated); ok {
		if _, isMap := v.(map[string]any); isMap {
			p.Logger.Info("pipeline.page.consolidation_reused", "page", page)
			m.ConsolidationStatus = constants.APIStatusOK
			if data, err := json.Marshal(v); err == nil {
				m.ConsolidationLength = len(data)
			}
			return
		}
	}

	tCons := time.Now()
	out := p.Consolidator.Consolidate(ctx, pagePDF, page, gBlocks, oBlocks)
	m.TimeSecConsolidation = time.Since(tCons).Seconds()

	in, outTok, cost := layout.StripUsage(out.Payload)
	m.ConsolidationStatus = out.Status
	m.ConsolidationLength = len(out.Result.Text)
	m.ConsolidationErrorMessage = out.ErrMsg
	m.ConsolidationInputTokens = in
	m.ConsolidationOutputTokens = outTok
	m.ConsolidationCostUSD = cost

	if err := store.WriteJSON(page, constants.ArtifactConsolidated, out.Payload); err != nil {
		p.Logger.Warn("pipeline.page.consolidated_persist_failed", "page", page, "error", err)
	}
}

// sanitizePage reuses a stored sanitized artifact when it parses, else calls
// the sanitizer against the durable consolidated file.
func (p *Pipeline) sanitizePage(ctx context.Context, store *artifacts.Store, consolidatedPath string, page int, m *metrics.PageMetrics) string {
	if raw, ok := store.ReadRaw(page, constants.ArtifactSanitized); ok {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			p.Logger.Info("pipeline.page.sanitize_reused", "page", page)
			m.SanitizeStatus = constants.SanitizeOK
			return raw
		}
	}

	tSan := time.Now()
	so := p.Sanitizer.Sanitize(ctx, consolidatedPath)
	m.TimeSecSanitize = time.Since(tSan).Seconds()
	m.SanitizeStatus = so.Status
	m.SanitizeInputTokens = so.Result.InputTokens
	m.SanitizeOutputTokens = so.Result.OutputTokens
	m.SanitizeCostUSD = so.Result.CostUSD

	if so.SanitizedJSON != "" {
		if err := store.WriteRaw(page, constants.ArtifactSanitized, so.SanitizedJSON); err != nil {
			p.Logger.Warn("pipeline.page.sanitized_persist_failed", "page", page, "error", err)
		}
	}
	return so.SanitizedJSON
}

// failPage records a structural failure: the page gets a single error block
// as its final artifact and a fail verification status.
func (p *Pipeline) failPage(store *artifacts.Store, m *metrics.PageMetrics, kind string) {
	errBlocks := []layout.Block{{"error": kind}}
	if err := store.WriteJSON(m.Page, constants.ArtifactFinalContent, errBlocks); err != nil {
		p.Logger.Error("pipeline.page.error_artifact_failed", "page", m.Page, "error", err)
	}
	m.VerificationStatus = constants.VerificationFail
	m.SanitizeStatus = constants.SanitizeSkipped
	m.Pypdf2Status = string(constants.ExtractionFailed)
	m.OCRStatus = string(constants.ExtractionFailed)
	m.FitzExtractionStatus = string(constants.ExtractionFailed)
	m.FallbackTextMethodUsed = constants.FallbackMethodNone
	m.FallbackTextStatus = constants.FallbackNoText
	m.VerificationTextSource = constants.VerificationSourceNone
	m.ContentVerificationStatus = constants.ContentVerificationEmpty
}

// splitOrEmpty never fails: a payload with nothing addressed to the page
// yields an empty block list.
func splitOrEmpty(payload map[string]any, page int) []layout.Block {
	blocks, ok := layout.SplitChunkPayload(payload, page)
	if !ok {
		return []layout.Block{}
	}
	return blocks
}

// blocksFromSanitized turns sanitized JSON text into the page's block list.
// Empty or unparseable text becomes a single error block so the page still
// carries an artifact.
func blocksFromSanitized(sanitized string) []layout.Block {
	if sanitized == "" {
		return []layout.Block{{"error": "empty sanitized text"}}
	}
	var v any
	if err := json.Unmarshal([]byte(sanitized), &v); err != nil {
		return []layout.Block{{"error": "sanitized JSON decode error"}}
	}
	switch t := v.(type) {
	case []any:
		blocks := make([]layout.Block, 0, len(t))
		for _, e := range t {
			if bm, ok := e.(map[string]any); ok {
				blocks = append(blocks, layout.Block(bm))
			}
		}
		if len(blocks) == 0 {
			return []layout.Block{{"error": "empty sanitized text"}}
		}
		return blocks
	case map[string]any:
		if items, ok := t["items"].([]any); ok {
			blocks := make([]layout.Block, 0, len(items))
			for _, e := range items {
				if bm, ok := e.(map[string]any); ok {
					blocks = append(blocks, layout.Block(bm))
				}
			}
			if len(blocks) > 0 {
				return blocks
			}
		}
		return []layout.Block{layout.Block(t)}
	default:
		return []layout.Block{{"error": "sanitized JSON decode error"}}
	}
}
