package llm

import "context"

// Media is inline binary content attached to a request.
type Media struct {
	MIMEType string // application/pdf | image/jpeg | image/png
	Data     []byte
}

// Part is one element of a multi-part prompt: either text or inline media.
type Part struct {
	Text  string
	Media *Media
}

func TextPart(s string) Part {
	return Part{Text: s}
}

func MediaPart(mimeType string, data []byte) Part {
	return Part{Media: &Media{MIMEType: mimeType, Data: data}}
}

// Result is a vendor-agnostic LLM response with usage accounting.
type Result struct {
	Text         string  `json:"text"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Client is the capability the pipeline consumes from vendor integrations.
// Implementations live outside the core; tests use replayable fakes.
type Client interface {
	Ask(ctx context.Context, parts []Part) (Result, error)
}
