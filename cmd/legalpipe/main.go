package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/legalpipe/legalpipe/constants"
	"github.com/legalpipe/legalpipe/internal/common"
	"github.com/legalpipe/legalpipe/internal/layout"
	"github.com/legalpipe/legalpipe/internal/llm"
	"github.com/legalpipe/legalpipe/internal/llm/chatapi"
	"github.com/legalpipe/legalpipe/internal/pdftext"
	"github.com/legalpipe/legalpipe/internal/pipeline"
)

func main() {
	pdfPath := flag.String("pdf", "", "source PDF to process")
	outDir := flag.String("out", "output", "output directory")
	tmpDir := flag.String("tmp", "tmp_pages", "scratch directory for page PDFs")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *pdfPath == "" {
		fmt.Fprintln(os.Stderr, "usage: legalpipe -pdf <file.pdf> [-out dir] [-tmp dir]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	vendorA, err := vendorClient("VENDOR_A", cfg, logger)
	if err != nil {
		logger.Error("main.vendor_a", "error", err)
		os.Exit(1)
	}
	vendorB, err := vendorClient("VENDOR_B", cfg, logger)
	if err != nil {
		logger.Error("main.vendor_b", "error", err)
		os.Exit(1)
	}

	schema := layout.DefaultSchema()
	validator, err := layout.CompileSchema(schema)
	if err != nil {
		logger.Error("main.schema", "error", err)
		os.Exit(1)
	}

	p := &pipeline.Pipeline{
		Config:   cfg,
		Splitter: pipeline.NewPdfcpuSplitter(),
		Extractors: pdftext.Suite{
			Native: pdftext.NewNativeExtractor(logger),
			OCR: pdftext.NewOCRExtractor(pdftext.OCRConfig{
				PopplerPath: cfg.Text.PopplerPath,
				Tesseract:   cfg.Text.Tesseract,
				Lang:        cfg.Text.TesseractLang,
				DPI:         cfg.Text.DPI,
			}, logger),
			Rich: pdftext.NewRichExtractor(logger),
		},
		VendorA: &layout.Asker{
			Vendor:    "gemini",
			RawSuffix: constants.ArtifactGeminiRaw,
			ErrKind:   "Gemini API call failed",
			Client:    vendorA,
			Prompt:    layout.DefaultLayoutPrompt,
			Logger:    logger,
		},
		VendorB: &layout.Asker{
			Vendor:    "openai",
			RawSuffix: constants.ArtifactOpenAIRaw,
			ErrKind:   "OpenAI API call failed",
			Client:    vendorB,
			Prompt:    layout.DefaultLayoutPrompt,
			Logger:    logger,
		},
		Consolidator: &layout.Consolidator{
			Client: vendorA,
			Prompt: layout.DefaultConsolidationPrompt,
			Schema: schema,
			Logger: logger,
		},
		Sanitizer: &layout.Sanitizer{
			Client:    vendorB,
			Prompt:    layout.DefaultSanitizePrompt,
			Validator: validator,
			Logger:    logger,
		},
		Verifier: &layout.Verifier{
			Client: vendorB,
			Prompt: layout.DefaultVerifyPrompt,
			Logger: logger,
		},
		Logger: logger,
	}

	rows, err := p.ProcessPDF(ctx, *pdfPath, *outDir, *tmpDir)
	if err != nil {
		logger.Error("main.process_pdf", "error", err)
		os.Exit(1)
	}

	pass := 0
	for _, r := range rows {
		if r.VerificationStatus == constants.VerificationPass {
			pass++
		}
	}
	logger.Info("main.done",
		"pages", len(rows),
		"verified", pass,
		"output", *outDir,
	)
}

// vendorClient builds a retrying OpenAI-compatible client from <prefix>_URL,
// <prefix>_KEY, <prefix>_MODEL and the optional pricing variables.
func vendorClient(prefix string, cfg *common.Config, logger *slog.Logger) (llm.Client, error) {
	url := os.Getenv(prefix + "_URL")
	if url == "" {
		return nil, fmt.Errorf("%s_URL is required", prefix)
	}
	model := os.Getenv(prefix + "_MODEL")
	if model == "" {
		return nil, fmt.Errorf("%s_MODEL is required", prefix)
	}

	base := chatapi.New(chatapi.Config{
		BaseURL:           url,
		APIKey:            os.Getenv(prefix + "_KEY"),
		Model:             model,
		InputCostPerMTok:  envFloat(prefix + "_INPUT_COST_PER_MTOK"),
		OutputCostPerMTok: envFloat(prefix + "_OUTPUT_COST_PER_MTOK"),
	}, &http.Client{Timeout: cfg.LLM.Timeout}, logger)

	return llm.WithRetry(base, cfg.LLM.Attempts, cfg.LLM.Backoff, cfg.LLM.Timeout, logger), nil
}

func envFloat(key string) float64 {
	var f float64
	if v := os.Getenv(key); v != "" {
		_, _ = fmt.Sscanf(v, "%g", &f)
	}
	return f
}
