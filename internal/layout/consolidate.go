package layout

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/legalpipe/legalpipe/constants"
	"github.com/legalpipe/legalpipe/internal/llm"
)

// Transient usage keys attached to the consolidated payload; the orchestrator
// moves them to metrics and strips them before anything is persisted.
const (
	TransientInputTokens  = "_consolidation_input_tokens"
	TransientOutputTokens = "_consolidation_output_tokens"
	TransientCostUSD      = "_consolidation_cost_usd"
)

// Consolidator merges both vendors' layout JSONs into one authoritative
// payload using a second vendor-A call over the page itself.
type Consolidator struct {
	Client llm.Client
	Prompt string
	Schema map[string]any
	Logger *slog.Logger
}

type ConsolidateOutcome struct {
	Result  llm.Result
	Payload map[string]any
	Status  int
	ErrMsg  string
}

// Consolidate never fails: on any trouble it returns a fallback payload that
// wraps both originals so the page still produces an artifact.
func (c *Consolidator) Consolidate(ctx context.Context, pagePDF []byte, page int, geminiBlocks, openaiBlocks any) ConsolidateOutcome {
	schemaJSON, err := json.MarshalIndent(c.Schema, "", "  ")
	if err != nil {
		return c.fallback(constants.FallbackException, page, geminiBlocks, openaiBlocks, llm.Result{}, err.Error())
	}
	gj, err := json.Marshal(geminiBlocks)
	if err != nil {
		return c.fallback(constants.FallbackException, page, geminiBlocks, openaiBlocks, llm.Result{}, err.Error())
	}
	oj, err := json.Marshal(openaiBlocks)
	if err != nil {
		return c.fallback(constants.FallbackException, page, geminiBlocks, openaiBlocks, llm.Result{}, err.Error())
	}

	res, err := c.Client.Ask(ctx, []llm.Part{
		llm.TextPart(c.Prompt),
		llm.TextPart("Target schema:\n" + string(schemaJSON)),
		llm.TextPart("Analysis A:\n" + string(gj)),
		llm.TextPart("Analysis B:\n" + string(oj)),
		llm.MediaPart("application/pdf", pagePDF),
	})
	if err != nil {
		c.Logger.Error("layout.consolidate.call_failed", "page", page, "error", err)
		return c.fallback(constants.FallbackException, page, geminiBlocks, openaiBlocks, res, err.Error())
	}

	v, _, ok := llm.ExtractJSON(res.Text)
	if !ok {
		c.Logger.Warn("layout.consolidate.no_valid_json", "page", page, "response_len", len(res.Text))
		return c.fallback(constants.FallbackNoValidJSON, page, geminiBlocks, openaiBlocks, res, "no valid JSON in consolidation response")
	}
	payload, ok := llm.WrapPayload(v, page)
	if !ok {
		return c.fallback(constants.FallbackJSONDecodeError, page, geminiBlocks, openaiBlocks, res, "unexpected JSON root in consolidation response")
	}

	attachUsage(payload, res)
	c.Logger.Info("layout.consolidate.ok", "page", page,
		"input_tokens", res.InputTokens, "output_tokens", res.OutputTokens)
	return ConsolidateOutcome{Result: res, Payload: payload, Status: constants.APIStatusOK}
}

func (c *Consolidator) fallback(kind string, page int, gemini, openai any, res llm.Result, errMsg string) ConsolidateOutcome {
	payload := map[string]any{
		"verification_status_internal": kind,
		"gemini_original":              gemini,
		"openai_original":              openai,
		"page_number":                  page,
	}
	attachUsage(payload, res)
	return ConsolidateOutcome{Result: res, Payload: payload, Status: constants.APIStatusError, ErrMsg: errMsg}
}

func attachUsage(payload map[string]any, res llm.Result) {
	payload[TransientInputTokens] = res.InputTokens
	payload[TransientOutputTokens] = res.OutputTokens
	payload[TransientCostUSD] = res.CostUSD
}

// StripUsage removes the transient usage keys, returning what they held.
// Persisted artifacts must never carry them.
func StripUsage(payload map[string]any) (inputTokens, outputTokens int, costUSD float64) {
	if v, ok := payload[TransientInputTokens].(int); ok {
		inputTokens = v
	}
	if v, ok := payload[TransientOutputTokens].(int); ok {
		outputTokens = v
	}
	if v, ok := payload[TransientCostUSD].(float64); ok {
		costUSD = v
	}
	delete(payload, TransientInputTokens)
	delete(payload, TransientOutputTokens)
	delete(payload, TransientCostUSD)
	return inputTokens, outputTokens, costUSD
}
