package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all pipeline configuration.
type Config struct {
	Chunk ChunkConfig
	Text  TextConfig
	Fuzzy FuzzyConfig
	LLM   LLMConfig
}

// ChunkConfig controls how pages are grouped for chunked LLM calls.
type ChunkConfig struct {
	Size int
}

// TextConfig holds text-extraction thresholds and tool locations.
type TextConfig struct {
	PopplerPath   string
	MinDirectLen  int // minimum stripped length for the native layer to win outright
	MinFitzLen    int // minimum length for rich text to be used for verification
	DPI           int
	TesseractLang string
	Tesseract     string
}

// FuzzyConfig holds content-verification thresholds.
type FuzzyConfig struct {
	Threshold     float64 // 0..100
	MinContentLen int
}

// LLMConfig holds call budgets shared by all vendors.
type LLMConfig struct {
	Timeout  time.Duration
	Attempts int
	Backoff  time.Duration
}

// DefaultChunkSize is used whenever PDF_CHUNK_SIZE is absent or invalid.
const DefaultChunkSize = 2

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Chunk: ChunkConfig{
			Size: getEnvAsChunkSize("PDF_CHUNK_SIZE", DefaultChunkSize),
		},
		Text: TextConfig{
			PopplerPath:   getEnv("POPPLER_PATH", ""),
			MinDirectLen:  getEnvAsInt("MIN_PYPDF2_LEN", 20),
			MinFitzLen:    getEnvAsInt("MIN_FITZ_LEN", 20),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			Tesseract:     getEnv("TESSERACT_PATH", "tesseract"),
		},
		Fuzzy: FuzzyConfig{
			Threshold:     getEnvAsFloat64("FUZZY_THRESHOLD", 88),
			MinContentLen: getEnvAsInt("MIN_CONTENT_FUZZY_LEN", 4),
		},
		LLM: LLMConfig{
			Timeout:  getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
			Attempts: getEnvAsInt("LLM_ATTEMPTS", 3),
			Backoff:  getEnvAsDuration("LLM_BACKOFF", 2*time.Second),
		},
	}
}

// Helper functions for environment variable parsing.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvAsChunkSize coerces non-integer and non-positive values to the default.
func getEnvAsChunkSize(key string, defaultValue int) int {
	v := getEnvAsInt(key, defaultValue)
	if v <= 0 {
		return defaultValue
	}
	return v
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
