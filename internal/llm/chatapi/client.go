// Package chatapi adapts any OpenAI-compatible chat/completions endpoint to
// the llm.Client capability. It exists so the CLI can drive the pipeline with
// real vendors; the core never depends on it.
package chatapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/legalpipe/legalpipe/internal/llm"
)

// Config identifies one endpoint plus its pricing for cost accounting.
type Config struct {
	BaseURL            string
	APIKey             string
	Model              string
	Temperature        float32
	InputCostPerMTok   float64 // USD per 1M input tokens
	OutputCostPerMTok  float64 // USD per 1M output tokens
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func New(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, http: httpClient, logger: logger}
}

func (c *Client) Ask(ctx context.Context, parts []llm.Part) (llm.Result, error) {
	content := make([]map[string]any, 0, len(parts))
	for _, p := range parts {
		if p.Media != nil {
			dataURL := "data:" + p.Media.MIMEType + ";base64," +
				base64.StdEncoding.EncodeToString(p.Media.Data)
			if p.Media.MIMEType == "application/pdf" {
				content = append(content, map[string]any{
					"type": "file",
					"file": map[string]any{"filename": "page.pdf", "file_data": dataURL},
				})
			} else {
				content = append(content, map[string]any{
					"type":      "image_url",
					"image_url": map[string]any{"url": dataURL},
				})
			}
			continue
		}
		content = append(content, map[string]any{"type": "text", "text": p.Text})
	}

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		return llm.Result{}, fmt.Errorf("chat call (%d): %w", status, err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return llm.Result{}, fmt.Errorf("decode response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return llm.Result{}, fmt.Errorf("empty choices")
	}

	res := llm.Result{
		Text:         cc.Choices[0].Message.Content,
		InputTokens:  cc.Usage.PromptTokens,
		OutputTokens: cc.Usage.CompletionTokens,
	}
	res.CostUSD = float64(res.InputTokens)/1e6*c.cfg.InputCostPerMTok +
		float64(res.OutputTokens)/1e6*c.cfg.OutputCostPerMTok
	return res, nil
}
