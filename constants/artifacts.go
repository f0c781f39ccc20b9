package constants

import "fmt"

// Per-page artifact filenames under <output_dir>/genai_outputs/.
const (
	ArtifactCrawl        = "crawl.json"
	ArtifactFallbackText = "crawl_fallback.txt"
	ArtifactGeminiRaw    = "gemini_raw.txt"
	ArtifactOpenAIRaw    = "openai_raw.txt"
	ArtifactConsolidated = "consolidated.json"
	ArtifactSanitized    = "sanitized.json"
	ArtifactGenai        = "genai.json"
	ArtifactFinalContent = "final_content.json"
	ArtifactPageMetrics  = "metrics.json"
)

// Document-level output filenames under <output_dir>/.
const (
	OutMasterJSON   = "layout_with_verification.json"
	OutMasterCSV    = "layout_with_verification.csv"
	OutMasterXLSX   = "layout_with_verification.xlsx"
	OutMasterHTML   = "layout_with_verification.html"
	OutSummaryXLSX  = "page_summary_with_verification.xlsx"
	OutSummaryCSV   = "page_summary_with_verification.csv"
	OutBookJSON     = "book_output.json"
	OutBookHTML     = "book_output.html"
	GenaiOutputsDir = "genai_outputs"
)

// PageArtifactName returns e.g. "page_3_consolidated.json" for page 3.
func PageArtifactName(page int, suffix string) string {
	return fmt.Sprintf("page_%d_%s", page, suffix)
}
