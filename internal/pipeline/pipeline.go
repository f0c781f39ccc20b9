// Package pipeline drives a document through extraction, the two-vendor
// layout calls, consolidation, sanitization, verification, and annotation,
// one chunk at a time. No step error escapes the orchestrator: every failure
// lands in the page's metrics row and artifacts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/legalpipe/legalpipe/internal/artifacts"
	"github.com/legalpipe/legalpipe/internal/common"
	"github.com/legalpipe/legalpipe/internal/layout"
	"github.com/legalpipe/legalpipe/internal/metrics"
	"github.com/legalpipe/legalpipe/internal/pdftext"
	"github.com/legalpipe/legalpipe/internal/verifycontent"
)

// Pipeline wires the collaborators for one document run. VendorA feeds the
// gemini_* metric family and consolidation; VendorB feeds openai_*,
// sanitization, and verification.
type Pipeline struct {
	Config       *common.Config
	Splitter     Splitter
	Extractors   pdftext.Suite
	VendorA      *layout.Asker
	VendorB      *layout.Asker
	Consolidator *layout.Consolidator
	Sanitizer    *layout.Sanitizer
	Verifier     *layout.Verifier
	Logger       *slog.Logger
}

// ProcessPDF runs the whole document and returns one metrics row per page in
// processing order. The run always reaches finalization; structural failures
// surface as per-page error artifacts, not as a short-circuit.
func (p *Pipeline) ProcessPDF(ctx context.Context, pdfPath, outputDir, tempPageDir string) ([]metrics.PageMetrics, error) {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}

	store, err := artifacts.NewStore(outputDir, p.Logger)
	if err != nil {
		return nil, common.NewAppError("artifact_store", "create output store", err)
	}
	if err := os.MkdirAll(tempPageDir, 0o755); err != nil {
		return nil, common.NewAppError("temp_dir", "create temp page dir", err)
	}

	pageCount, err := p.Splitter.PageCount(pdfPath)
	if err != nil {
		return nil, common.NewAppError("source_pdf", fmt.Sprintf("open %s", pdfPath), err)
	}
	if pageCount == 0 {
		p.Logger.Warn("pipeline.empty_document", "pdf", pdfPath)
		return nil, nil
	}

	fuzzy := verifycontent.NewFuzzyVerifier(
		p.Config.Fuzzy.Threshold, p.Config.Fuzzy.MinContentLen, p.Logger)

	chunkSize := p.Config.Chunk.Size
	if chunkSize < 1 {
		chunkSize = common.DefaultChunkSize
	}

	var rows []metrics.PageMetrics
	var allPages []int
	chunkIdx := 0
	for start := 1; start <= pageCount; start += chunkSize {
		end := start + chunkSize - 1
		if end > pageCount {
			end = pageCount
		}
		chunkIdx++
		pages := make([]int, 0, end-start+1)
		for n := start; n <= end; n++ {
			pages = append(pages, n)
		}
		allPages = append(allPages, pages...)

		rows = append(rows, p.runChunk(ctx, store, fuzzy, pdfPath, tempPageDir, pages, chunkIdx)...)
	}

	p.finalize(store, rows, allPages)
	return rows, nil
}
