package pdftext

import (
	"context"
	"strings"

	"github.com/legalpipe/legalpipe/constants"
)

// Hyperlink is one URI-kind link found on a page. Rect is [x0,y0,x1,y1] in PDF
// user space and is nil for extractors that carry no geometry.
type Hyperlink struct {
	AnchorText string      `json:"anchor_text"`
	URL        string      `json:"url"`
	Rect       *[4]float64 `json:"rect,omitempty"`
}

// View is one independent text view of a page. Failures are encoded in
// Status, never raised: an extractor that blows up reports extraction_failed.
type View struct {
	Text   string
	Status constants.ExtractionStatus
	Links  []Hyperlink // rich extractor only
}

// CharCount returns the view's character count, zero for failed views.
func (v View) CharCount() int {
	return len(v.Text)
}

// Extractor produces one text view of a single-page PDF.
type Extractor interface {
	Extract(ctx context.Context, pdfPath string) View
}

// Suite bundles the three independent extractors the pipeline runs per page.
type Suite struct {
	Native Extractor
	OCR    Extractor
	Rich   Extractor
}

// PageText is everything the pipeline knows about a page's text.
type PageText struct {
	Native View
	OCR    View
	Rich   View

	FallbackText   string
	FallbackMethod string
	FallbackStatus string

	VerificationText   string
	VerificationSource string
}

// statusFor maps extracted text to a view status.
func statusFor(text string) constants.ExtractionStatus {
	if strings.TrimSpace(text) == "" {
		return constants.ExtractionEmpty
	}
	return constants.ExtractionSuccess
}
