package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/legalpipe/legalpipe/constants"
	"github.com/legalpipe/legalpipe/internal/artifacts"
	"github.com/legalpipe/legalpipe/internal/layout"
	"github.com/legalpipe/legalpipe/internal/metrics"
	"github.com/legalpipe/legalpipe/internal/verifycontent"
)

// runChunk performs one chunk: one layout call per vendor over the chunk PDF,
// then the per-page state machine for every page in it. Token counts and call
// latency of a chunk call are attributed to every page of the chunk.
func (p *Pipeline) runChunk(ctx context.Context, store *artifacts.Store, fuzzy *verifycontent.FuzzyVerifier, pdfPath, tempDir string, pages []int, chunkIdx int) []metrics.PageMetrics {
	first, last := pages[0], pages[len(pages)-1]
	chunkInfo := fmt.Sprintf("chunk_%d_pages_%d-%d", chunkIdx, first, last)

	// Resume is page-granular: a page whose stored statuses and artifacts
	// check out is replayed from its metrics row, not re-driven.
	pending := make([]int, 0, len(pages))
	for _, page := range pages {
		if !store.PageComplete(page) {
			pending = append(pending, page)
		}
	}
	if len(pending) == 0 {
		p.Logger.Info("pipeline.chunk.skipped", "chunk", chunkInfo)
		rows := make([]metrics.PageMetrics, 0, len(pages))
		for _, page := range pages {
			m, _ := store.ReadPageMetrics(page)
			rows = append(rows, metrics.FromMap(m))
		}
		return rows
	}

	chunkPath := filepath.Join(tempDir, fmt.Sprintf("chunk_%s.pdf", uuid.NewString()))
	if err := p.Splitter.WritePageRange(pdfPath, chunkPath, first, last); err != nil {
		p.Logger.Error("pipeline.chunk.create_failed", "chunk", chunkInfo, "error", err)
		return p.failChunk(store, pages, chunkInfo, err.Error())
	}
	defer func() { _ = os.Remove(chunkPath) }()

	chunkPDF, err := os.ReadFile(chunkPath)
	if err != nil {
		p.Logger.Error("pipeline.chunk.read_failed", "chunk", chunkInfo, "error", err)
		return p.failChunk(store, pages, chunkInfo, err.Error())
	}

	tA := time.Now()
	outA := p.VendorA.AskLayout(ctx, store, chunkPDF, pages)
	durA := time.Since(tA).Seconds()

	tB := time.Now()
	outB := p.VendorB.AskLayout(ctx, store, chunkPDF, pages)
	durB := time.Since(tB).Seconds()

	rows := make([]metrics.PageMetrics, 0, len(pages))
	for _, page := range pages {
		if store.PageComplete(page) {
			p.Logger.Info("pipeline.page.skipped", "page", page)
			m, _ := store.ReadPageMetrics(page)
			rows = append(rows, metrics.FromMap(m))
			continue
		}
		row := p.processPage(ctx, store, fuzzy, pdfPath, tempDir, page, chunkInfo, outA, durA, outB, durB)
		if err := store.WritePageMetrics(&row); err != nil {
			p.Logger.Warn("pipeline.page.metrics_persist_failed", "page", page, "error", err)
		}
		rows = append(rows, row)
	}
	return rows
}

// failChunk records a chunk-level failure: every page gets an error artifact
// and an error metrics row, so downstream aggregation still sees the page.
func (p *Pipeline) failChunk(store *artifacts.Store, pages []int, chunkInfo, msg string) []metrics.PageMetrics {
	rows := make([]metrics.PageMetrics, 0, len(pages))
	for _, page := range pages {
		errBlock := []layout.Block{{"error": "chunk_level_error: " + msg}}
		if err := store.WriteJSON(page, constants.ArtifactFinalContent, errBlock); err != nil {
			p.Logger.Error("pipeline.chunk.error_artifact_failed", "page", page, "error", err)
		}

		m := metrics.PageMetrics{
			Page:                      page,
			ChunkInfo:                 chunkInfo,
			GeminiAPIStatus:           constants.APIStatusError,
			GeminiErrorMessage:        "chunk_level_error: " + msg,
			OpenAIAPIStatus:           constants.APIStatusError,
			OpenAIErrorMessage:        "chunk_level_error: " + msg,
			SanitizeStatus:            constants.SanitizeSkipped,
			VerificationStatus:        constants.VerificationFail,
			Pypdf2Status:              string(constants.ExtractionFailed),
			OCRStatus:                 string(constants.ExtractionFailed),
			FitzExtractionStatus:      string(constants.ExtractionFailed),
			FallbackTextMethodUsed:    constants.FallbackMethodNone,
			FallbackTextStatus:        constants.FallbackNoText,
			VerificationTextSource:    constants.VerificationSourceNone,
			ContentVerificationStatus: constants.ContentVerificationEmpty,
		}
		if err := store.WritePageMetrics(&m); err != nil {
			p.Logger.Warn("pipeline.page.metrics_persist_failed", "page", page, "error", err)
		}
		rows = append(rows, m)
	}
	return rows
}
