package layout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/legalpipe/legalpipe/constants"
	"github.com/legalpipe/legalpipe/internal/llm"
)

// RawStore is the slice of the artifact store the asker needs: raw vendor
// responses persisted per page, readable back for resumed runs.
type RawStore interface {
	WriteRaw(page int, suffix, text string) error
	ReadRaw(page int, suffix string) (string, bool)
}

// Asker drives one vendor's layout call for a chunk of pages.
type Asker struct {
	Vendor    string // metric prefix: "gemini" | "openai"
	RawSuffix string // constants.ArtifactGeminiRaw | constants.ArtifactOpenAIRaw
	ErrKind   string // taxonomy label, e.g. "Gemini API call failed"
	Client    llm.Client
	Prompt    string
	Logger    *slog.Logger
}

// AskOutcome carries the call result as data; transport and parse failures
// become error payloads, never errors.
type AskOutcome struct {
	Result    llm.Result
	Payload   map[string]any
	APIStatus int
	ErrMsg    string
	Reused    bool
}

// AskLayout asks the vendor to describe the chunk's layout. The raw response
// is persisted per page before parsing; when every page of the chunk already
// has a raw artifact the stored text is replayed and no call is made.
func (a *Asker) AskLayout(ctx context.Context, store RawStore, chunkPDF []byte, pages []int) AskOutcome {
	if len(pages) == 0 {
		return AskOutcome{Payload: llm.ErrorDict(a.ErrKind, "empty chunk", 0), APIStatus: constants.APIStatusError, ErrMsg: "empty chunk"}
	}
	first := pages[0]

	if text, ok := a.reuse(store, pages); ok {
		a.Logger.Info("layout.ask.reused", "vendor", a.Vendor, "pages", pages)
		out := a.parse(llm.Result{Text: text}, first)
		out.Reused = true
		return out
	}

	res, err := a.Client.Ask(ctx, []llm.Part{
		llm.TextPart(a.Prompt + "\n" + chunkPageLine(pages)),
		llm.MediaPart("application/pdf", chunkPDF),
	})
	if err != nil {
		a.Logger.Error("layout.ask.call_failed", "vendor", a.Vendor, "pages", pages, "error", err)
		return AskOutcome{
			Result:    res,
			Payload:   llm.ErrorDict(a.ErrKind, err.Error(), first),
			APIStatus: constants.APIStatusError,
			ErrMsg:    err.Error(),
		}
	}

	for _, p := range pages {
		if werr := store.WriteRaw(p, a.RawSuffix, res.Text); werr != nil {
			a.Logger.Warn("layout.ask.persist_raw_failed", "vendor", a.Vendor, "page", p, "error", werr)
		}
	}

	out := a.parse(res, first)
	a.Logger.Info("layout.ask.ok",
		"vendor", a.Vendor,
		"pages", pages,
		"api_status", out.APIStatus,
		"response_len", len(res.Text),
		"input_tokens", res.InputTokens,
		"output_tokens", res.OutputTokens,
	)
	return out
}

// chunkPageLine names the document-absolute pages the attached chunk covers.
// The chunk PDF is trimmed, so the vendor cannot know its position in the
// whole document without this.
func chunkPageLine(pages []int) string {
	first, last := pages[0], pages[len(pages)-1]
	if first == last {
		return fmt.Sprintf("The attached PDF is page %d of the full document; report page_number %d for every block.", first, first)
	}
	return fmt.Sprintf("The attached PDF contains pages %d-%d of the full document, in order; report page_number values %d through %d accordingly.", first, last, first, last)
}

func (a *Asker) parse(res llm.Result, page int) AskOutcome {
	v, _, ok := llm.ExtractJSON(res.Text)
	if !ok {
		return AskOutcome{
			Result:    res,
			Payload:   llm.ErrorDict("JSONDecodeError", res.Text, page),
			APIStatus: constants.APIStatusError,
			ErrMsg:    "JSONDecodeError",
		}
	}
	payload, ok := llm.WrapPayload(v, page)
	if !ok {
		return AskOutcome{
			Result:    res,
			Payload:   llm.ErrorDict("JSONDecodeError", res.Text, page),
			APIStatus: constants.APIStatusError,
			ErrMsg:    "unexpected JSON root",
		}
	}
	return AskOutcome{Result: res, Payload: payload, APIStatus: constants.APIStatusOK}
}

// reuse returns the stored raw response when every page of the chunk has one.
func (a *Asker) reuse(store RawStore, pages []int) (string, bool) {
	var text string
	for i, p := range pages {
		t, ok := store.ReadRaw(p, a.RawSuffix)
		if !ok {
			return "", false
		}
		if i == 0 {
			text = t
		}
	}
	return text, text != ""
}
