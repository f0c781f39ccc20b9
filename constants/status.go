package constants

// ExtractionStatus is the canonical status for a single text-extraction view.
type ExtractionStatus string

// Stable values (these exact strings are written to metrics and artifacts).
const (
	ExtractionSuccess ExtractionStatus = "success"
	ExtractionEmpty   ExtractionStatus = "empty_result"
	ExtractionFailed  ExtractionStatus = "extraction_failed"
)

// Fallback text selection methods.
const (
	FallbackMethodNative = "pypdf2_direct"
	FallbackMethodOCR    = "ocr_fallback"
	FallbackMethodNone   = "none"
)

// Fallback text selection statuses.
const (
	FallbackSufficient   = "success_sufficient"
	FallbackInsufficient = "success_insufficient_length"
	FallbackNoText       = "no_text_available"
)

// Verification text sources.
const (
	VerificationSourceRich   = "fitz"
	VerificationSourceNative = "pypdf2_direct"
	VerificationSourceOCR    = "ocr_fallback"
	VerificationSourceNone   = "none_available"
)

// Content (fuzzy) verification page statuses.
const (
	ContentVerificationAttempted = "fuzzy_attempted"
	ContentVerificationEmpty     = "skipped_empty_genai_content"
	ContentVerificationNotAList  = "skipped_genai_content_not_a_list"
)

// Per-block fuzzy annotation values.
const (
	FuzzyVerified   = "verified"
	FuzzyUnverified = "unverified"
)

// Consolidation escape hatches. A page that hits one of these still produces
// an artifact wrapping both vendors' originals.
const (
	FallbackNoValidJSON     = "Fallback_NoValidJsonFromConsolidation"
	FallbackJSONDecodeError = "Fallback_JsonDecodeErrorInConsolidation"
	FallbackException       = "Fallback_ExceptionInConsolidation"
)

// Verification judgment values. Anything other than a clean pass/fail is a
// "fail - ..." variant carrying the reason.
const (
	VerificationPass               = "pass"
	VerificationFail               = "fail"
	VerificationFailEmptySanitized = "fail - empty sanitized text"
	VerificationFailDecode         = "fail - sanitized JSON decode error"
)

// API status codes recorded in metrics for LLM calls. A call counts as 200
// only when both the transport and the JSON parse succeeded.
const (
	APIStatusOK    = 200
	APIStatusError = 500
)

// Sanitize step statuses.
const (
	SanitizeOK     = "ok"
	SanitizeFailed = "fail"
	SanitizeSkipped = "skipped"
)
