package pdftext

import (
	"strings"

	"github.com/legalpipe/legalpipe/constants"
)

// SelectFallback chooses the best plain-text view of a page from the native
// and OCR layers. A layer that clears the length threshold always beats one
// that does not: sufficient native, then sufficient OCR, then whatever
// non-empty text remains, native first.
func SelectFallback(native, ocr View, minDirectLen int) (text, method, status string) {
	nativeOK := native.Status == constants.ExtractionSuccess || native.Status == constants.ExtractionEmpty
	ocrOK := ocr.Status == constants.ExtractionSuccess || ocr.Status == constants.ExtractionEmpty

	if nativeOK && len(strings.TrimSpace(native.Text)) > minDirectLen {
		return native.Text, constants.FallbackMethodNative, constants.FallbackSufficient
	}
	if ocrOK && len(strings.TrimSpace(ocr.Text)) > minDirectLen {
		return ocr.Text, constants.FallbackMethodOCR, constants.FallbackSufficient
	}
	if native.Text != "" {
		return native.Text, constants.FallbackMethodNative, constants.FallbackInsufficient
	}
	if ocr.Text != "" {
		return ocr.Text, constants.FallbackMethodOCR, constants.FallbackInsufficient
	}

	// nothing usable; report the last attempted method
	method = constants.FallbackMethodOCR
	if ocr.Status == constants.ExtractionFailed && native.Status == constants.ExtractionFailed {
		method = constants.FallbackMethodNone
	}
	return "", method, constants.FallbackNoText
}

// SelectVerification chooses the text used to fuzzy-check LLM output:
// the rich layer when long enough, else whatever the fallback chose.
func SelectVerification(rich View, fallbackText, fallbackMethod string, minFitzLen int) (text, source string) {
	if rich.Status == constants.ExtractionSuccess && len(rich.Text) >= minFitzLen {
		return rich.Text, constants.VerificationSourceRich
	}
	if fallbackText != "" {
		return fallbackText, fallbackMethod
	}
	return "", constants.VerificationSourceNone
}

// Assemble runs the two selectors over freshly extracted views.
func Assemble(native, ocr, rich View, minDirectLen, minFitzLen int) PageText {
	pt := PageText{Native: native, OCR: ocr, Rich: rich}
	pt.FallbackText, pt.FallbackMethod, pt.FallbackStatus = SelectFallback(native, ocr, minDirectLen)
	pt.VerificationText, pt.VerificationSource = SelectVerification(rich, pt.FallbackText, pt.FallbackMethod, minFitzLen)
	return pt
}
