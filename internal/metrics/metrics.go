package metrics

import (
	"fmt"
	"strconv"
)

// PageMetrics is the flat per-page record appended after each page completes.
// The key set is contractual: Columns() and Row() must stay in lockstep.
type PageMetrics struct {
	Page int

	TimeSecTotalPageProcessing float64
	TimeSecTempPDFCreation     float64

	GeminiAPIStatus     int
	GeminiResponseLength int
	GeminiErrorMessage  string
	GeminiInputTokens   int
	GeminiOutputTokens  int
	GeminiCostUSD       float64
	TimeSecGeminiLayout float64

	OpenAIAPIStatus     int
	OpenAIResponseLength int
	OpenAIErrorMessage  string
	OpenAIInputTokens   int
	OpenAIOutputTokens  int
	OpenAICostUSD       float64
	TimeSecOpenAILayout float64

	ConsolidationStatus        int
	ConsolidationLength        int
	ConsolidationErrorMessage  string
	ConsolidationInputTokens   int
	ConsolidationOutputTokens  int
	ConsolidationCostUSD       float64
	TimeSecConsolidation       float64

	SanitizeInputTokens  int
	SanitizeOutputTokens int
	SanitizeCostUSD      float64
	SanitizeStatus       string
	TimeSecSanitize      float64

	VerificationStatus       string
	VerificationInputTokens  int
	VerificationOutputTokens int
	VerificationCostUSD      float64
	TimeSecVerification      float64

	Pypdf2Status    string
	Pypdf2CharCount int
	OCRStatus       string
	OCRCharCount    int

	FitzExtractionStatus string
	FitzTextCharCount    int
	FitzLinkCount        int

	FallbackTextMethodUsed string
	FallbackTextStatus     string
	FallbackTextCharCount  int

	VerificationTextSource    string
	ContentVerificationStatus string

	ChunkInfo string
}

// Columns returns the contractual metric keys in emission order.
func Columns() []string {
	return []string{
		"page",
		"time_sec_total_page_processing",
		"time_sec_temp_pdf_creation",
		"gemini_api_status",
		"gemini_response_length",
		"gemini_error_message",
		"gemini_input_tokens",
		"gemini_output_tokens",
		"gemini_cost_usd",
		"time_sec_gemini_layout",
		"openai_api_status",
		"openai_response_length",
		"openai_error_message",
		"openai_input_tokens",
		"openai_output_tokens",
		"openai_cost_usd",
		"time_sec_openai_layout",
		"genai_response_consolidation_status",
		"genai_response_consolidation_length",
		"json_consolidation_error_message",
		"consolidation_input_tokens",
		"consolidation_output_tokens",
		"consolidation_cost_usd",
		"time_sec_consolidation",
		"sanitize_input_tokens",
		"sanitize_output_tokens",
		"sanitize_cost_usd",
		"sanitize_status",
		"time_sec_sanitize",
		"verification_status",
		"verification_input_tokens",
		"verification_output_tokens",
		"verification_cost_usd",
		"time_sec_verification",
		"pypdf2_status",
		"pypdf2_char_count",
		"ocr_status",
		"ocr_char_count",
		"fitz_extraction_status",
		"fitz_text_char_count",
		"fitz_link_count",
		"fallback_text_method_used",
		"fallback_text_status",
		"fallback_text_char_count",
		"verification_text_source",
		"content_verification_status",
		"chunk_info",
	}
}

// Values returns the row values aligned with Columns().
func (m *PageMetrics) Values() []any {
	return []any{
		m.Page,
		m.TimeSecTotalPageProcessing,
		m.TimeSecTempPDFCreation,
		m.GeminiAPIStatus,
		m.GeminiResponseLength,
		m.GeminiErrorMessage,
		m.GeminiInputTokens,
		m.GeminiOutputTokens,
		m.GeminiCostUSD,
		m.TimeSecGeminiLayout,
		m.OpenAIAPIStatus,
		m.OpenAIResponseLength,
		m.OpenAIErrorMessage,
		m.OpenAIInputTokens,
		m.OpenAIOutputTokens,
		m.OpenAICostUSD,
		m.TimeSecOpenAILayout,
		m.ConsolidationStatus,
		m.ConsolidationLength,
		m.ConsolidationErrorMessage,
		m.ConsolidationInputTokens,
		m.ConsolidationOutputTokens,
		m.ConsolidationCostUSD,
		m.TimeSecConsolidation,
		m.SanitizeInputTokens,
		m.SanitizeOutputTokens,
		m.SanitizeCostUSD,
		m.SanitizeStatus,
		m.TimeSecSanitize,
		m.VerificationStatus,
		m.VerificationInputTokens,
		m.VerificationOutputTokens,
		m.VerificationCostUSD,
		m.TimeSecVerification,
		m.Pypdf2Status,
		m.Pypdf2CharCount,
		m.OCRStatus,
		m.OCRCharCount,
		m.FitzExtractionStatus,
		m.FitzTextCharCount,
		m.FitzLinkCount,
		m.FallbackTextMethodUsed,
		m.FallbackTextStatus,
		m.FallbackTextCharCount,
		m.VerificationTextSource,
		m.ContentVerificationStatus,
		m.ChunkInfo,
	}
}

// Row renders the values as strings for CSV emission.
func (m *PageMetrics) Row() []string {
	vals := m.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = formatValue(v)
	}
	return out
}

// Map projects the record onto its contractual keys, for JSON artifacts.
func (m *PageMetrics) Map() map[string]any {
	cols := Columns()
	vals := m.Values()
	out := make(map[string]any, len(cols))
	for i, c := range cols {
		out[c] = vals[i]
	}
	return out
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
