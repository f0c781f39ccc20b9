package common

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	if cfg.Chunk.Size != 2 {
		t.Errorf("chunk size = %d, want 2", cfg.Chunk.Size)
	}
	if cfg.Text.MinDirectLen != 20 || cfg.Text.MinFitzLen != 20 {
		t.Errorf("thresholds = %d/%d, want 20/20", cfg.Text.MinDirectLen, cfg.Text.MinFitzLen)
	}
	if cfg.Fuzzy.Threshold != 88 {
		t.Errorf("fuzzy threshold = %v, want 88", cfg.Fuzzy.Threshold)
	}
	if cfg.Fuzzy.MinContentLen != 4 {
		t.Errorf("min content fuzzy len = %d, want 4", cfg.Fuzzy.MinContentLen)
	}
	if cfg.LLM.Attempts != 3 {
		t.Errorf("llm attempts = %d, want 3", cfg.LLM.Attempts)
	}
}

func TestChunkSizeCoercion(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"valid", "5", 5},
		{"one", "1", 1},
		{"zero", "0", 2},
		{"negative", "-3", 2},
		{"non-integer", "two", 2},
		{"float", "2.5", 2},
		{"empty", "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PDF_CHUNK_SIZE", tt.env)
			if got := LoadConfig().Chunk.Size; got != tt.want {
				t.Errorf("PDF_CHUNK_SIZE=%q -> %d, want %d", tt.env, got, tt.want)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MIN_PYPDF2_LEN", "50")
	t.Setenv("FUZZY_THRESHOLD", "72.5")
	t.Setenv("LLM_TIMEOUT", "30s")
	cfg := LoadConfig()
	if cfg.Text.MinDirectLen != 50 {
		t.Errorf("MIN_PYPDF2_LEN override = %d, want 50", cfg.Text.MinDirectLen)
	}
	if cfg.Fuzzy.Threshold != 72.5 {
		t.Errorf("FUZZY_THRESHOLD override = %v, want 72.5", cfg.Fuzzy.Threshold)
	}
	if cfg.LLM.Timeout != 30*time.Second {
		t.Errorf("LLM_TIMEOUT override = %v, want 30s", cfg.LLM.Timeout)
	}
}
