package pipeline

import (
	"os"

	"github.com/legalpipe/legalpipe/constants"
	"github.com/legalpipe/legalpipe/internal/artifacts"
	"github.com/legalpipe/legalpipe/internal/metrics"
	"github.com/legalpipe/legalpipe/internal/render"
)

// finalize writes every document-level output. Individual failures are
// logged and the remaining outputs are still attempted; the summary table is
// the one output the run always tries to produce last-resort via CSV.
func (p *Pipeline) finalize(store *artifacts.Store, rows []metrics.PageMetrics, pages []int) {
	book := store.CollectBook(pages)

	if err := store.WriteMasterJSON(book); err != nil {
		p.Logger.Error("pipeline.finalize.master_json_failed", "error", err)
	}
	if err := metrics.WriteCSV(store.DocumentPath(constants.OutMasterCSV), rows); err != nil {
		p.Logger.Error("pipeline.finalize.master_csv_failed", "error", err)
	}
	if err := metrics.WriteXLSX(store.DocumentPath(constants.OutMasterXLSX), rows); err != nil {
		p.Logger.Error("pipeline.finalize.master_xlsx_failed", "error", err)
	}
	if err := os.WriteFile(store.DocumentPath(constants.OutMasterHTML), []byte(render.MetricsHTML(rows)), 0o644); err != nil {
		p.Logger.Error("pipeline.finalize.master_html_failed", "error", err)
	}

	if err := metrics.WriteSummary(
		store.DocumentPath(constants.OutSummaryXLSX),
		store.DocumentPath(constants.OutSummaryCSV),
		rows, p.Logger); err != nil {
		p.Logger.Error("pipeline.finalize.summary_failed", "error", err)
	}

	if err := store.WriteBookJSON(book); err != nil {
		p.Logger.Error("pipeline.finalize.book_json_failed", "error", err)
	}
	if err := os.WriteFile(store.DocumentPath(constants.OutBookHTML), []byte(render.BookHTML(book)), 0o644); err != nil {
		p.Logger.Error("pipeline.finalize.book_html_failed", "error", err)
	}

	p.Logger.Info("pipeline.finalize.done", "pages", len(pages), "rows", len(rows))
}
