package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/ledongthuc/pdf"

	"github.com/legalpipe/legalpipe/constants"
)

// NativeExtractor reads the PDF's embedded text layer.
type NativeExtractor struct {
	Logger *slog.Logger
}

func NewNativeExtractor(logger *slog.Logger) *NativeExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &NativeExtractor{Logger: logger}
}

func (e *NativeExtractor) Extract(ctx context.Context, pdfPath string) View {
	text, err := nativeText(pdfPath)
	if err != nil {
		e.Logger.Warn("pdftext.native.failed", "path", pdfPath, "error", err)
		return View{Status: constants.ExtractionFailed}
	}
	return View{Text: text, Status: statusFor(text)}
}

// nativeText isolates the library call so panics from malformed content
// streams surface as errors, not crashes.
func nativeText(pdfPath string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("native text layer: %v", r)
		}
	}()

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("plain text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return buf.String(), nil
}
