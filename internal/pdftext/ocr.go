package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/legalpipe/legalpipe/constants"
)

// OCRConfig holds rasterization and tesseract settings.
type OCRConfig struct {
	PopplerPath string // directory holding pdftoppm; empty means PATH lookup
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Lang        string // default "eng"
	DPI         int    // default 300
}

// OCRExtractor rasterizes the page with pdftoppm and runs tesseract on the
// result. One page image is held on disk at a time; nothing is kept in memory.
type OCRExtractor struct {
	cfg    OCRConfig
	runner Runner
	logger *slog.Logger
}

func NewOCRExtractor(cfg OCRConfig, logger *slog.Logger) *OCRExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &OCRExtractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

func (e *OCRExtractor) pdftoppm() string {
	if e.cfg.PopplerPath == "" {
		return "pdftoppm"
	}
	return filepath.Join(e.cfg.PopplerPath, "pdftoppm")
}

func (e *OCRExtractor) Extract(ctx context.Context, pdfPath string) View {
	tmpDir, err := os.MkdirTemp("", "lp-ocr-*")
	if err != nil {
		e.logger.Warn("pdftext.ocr.tempdir_failed", "error", err)
		return View{Status: constants.ExtractionFailed}
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("pdftext.ocr.cleanup_failed", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.pdftoppm(), "-r", strconv.Itoa(e.cfg.DPI), "-png", pdfPath, prefix)
	if err != nil {
		e.logger.Warn("pdftext.ocr.rasterize_failed", "path", pdfPath, "stderr", truncate(string(errb), 1024))
		return View{Status: constants.ExtractionFailed}
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		e.logger.Warn("pdftext.ocr.no_images", "path", pdfPath)
		return View{Status: constants.ExtractionFailed}
	}

	var b strings.Builder
	for _, img := range matches {
		txt, ocrErr := e.tesseract(ctx, img)
		// remove each rendered page before moving to the next one
		_ = os.Remove(img)
		if ocrErr != nil {
			e.logger.Warn("pdftext.ocr.tesseract_failed", "image", img, "error", ocrErr)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(txt)
	}
	text := b.String()
	return View{Text: text, Status: statusFor(text)}
}

func (e *OCRExtractor) tesseract(ctx context.Context, imgPath string) (string, error) {
	args := []string{imgPath, "stdout", "-l", e.cfg.Lang}
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
