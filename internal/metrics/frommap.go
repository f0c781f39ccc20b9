package metrics

// FromMap rebuilds a PageMetrics from a stored JSON map. Numbers arrive as
// float64 after a JSON round-trip; missing keys leave zero values.
func FromMap(m map[string]any) PageMetrics {
	return PageMetrics{
		Page: asInt(m["page"]),

		TimeSecTotalPageProcessing: asFloat(m["time_sec_total_page_processing"]),
		TimeSecTempPDFCreation:     asFloat(m["time_sec_temp_pdf_creation"]),

		GeminiAPIStatus:      asInt(m["gemini_api_status"]),
		GeminiResponseLength: asInt(m["gemini_response_length"]),
		GeminiErrorMessage:   asString(m["gemini_error_message"]),
		GeminiInputTokens:    asInt(m["gemini_input_tokens"]),
		GeminiOutputTokens:   asInt(m["gemini_output_tokens"]),
		GeminiCostUSD:        asFloat(m["gemini_cost_usd"]),
		TimeSecGeminiLayout:  asFloat(m["time_sec_gemini_layout"]),

		OpenAIAPIStatus:      asInt(m["openai_api_status"]),
		OpenAIResponseLength: asInt(m["openai_response_length"]),
		OpenAIErrorMessage:   asString(m["openai_error_message"]),
		OpenAIInputTokens:    asInt(m["openai_input_tokens"]),
		OpenAIOutputTokens:   asInt(m["openai_output_tokens"]),
		OpenAICostUSD:        asFloat(m["openai_cost_usd"]),
		TimeSecOpenAILayout:  asFloat(m["time_sec_openai_layout"]),

		ConsolidationStatus:       asInt(m["genai_response_consolidation_status"]),
		ConsolidationLength:       asInt(m["genai_response_consolidation_length"]),
		ConsolidationErrorMessage: asString(m["json_consolidation_error_message"]),
		ConsolidationInputTokens:  asInt(m["consolidation_input_tokens"]),
		ConsolidationOutputTokens: asInt(m["consolidation_output_tokens"]),
		ConsolidationCostUSD:      asFloat(m["consolidation_cost_usd"]),
		TimeSecConsolidation:      asFloat(m["time_sec_consolidation"]),

		SanitizeInputTokens:  asInt(m["sanitize_input_tokens"]),
		SanitizeOutputTokens: asInt(m["sanitize_output_tokens"]),
		SanitizeCostUSD:      asFloat(m["sanitize_cost_usd"]),
		SanitizeStatus:       asString(m["sanitize_status"]),
		TimeSecSanitize:      asFloat(m["time_sec_sanitize"]),

		VerificationStatus:       asString(m["verification_status"]),
		VerificationInputTokens:  asInt(m["verification_input_tokens"]),
		VerificationOutputTokens: asInt(m["verification_output_tokens"]),
		VerificationCostUSD:      asFloat(m["verification_cost_usd"]),
		TimeSecVerification:      asFloat(m["time_sec_verification"]),

		Pypdf2Status:    asString(m["pypdf2_status"]),
		Pypdf2CharCount: asInt(m["pypdf2_char_count"]),
		OCRStatus:       asString(m["ocr_status"]),
		OCRCharCount:    asInt(m["ocr_char_count"]),

		FitzExtractionStatus: asString(m["fitz_extraction_status"]),
		FitzTextCharCount:    asInt(m["fitz_text_char_count"]),
		FitzLinkCount:        asInt(m["fitz_link_count"]),

		FallbackTextMethodUsed: asString(m["fallback_text_method_used"]),
		FallbackTextStatus:     asString(m["fallback_text_status"]),
		FallbackTextCharCount:  asInt(m["fallback_text_char_count"]),

		VerificationTextSource:    asString(m["verification_text_source"]),
		ContentVerificationStatus: asString(m["content_verification_status"]),

		ChunkInfo: asString(m["chunk_info"]),
	}
}

func asInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case float64:
		return int(t)
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	default:
		return 0
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
