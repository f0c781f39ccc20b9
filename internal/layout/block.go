package layout

// Block is one element of the LLM's per-page output: a tagged piece of page
// content plus whatever attributes the model decided to emit. The shape is
// dynamic by contract, so it stays a map with typed accessors.
type Block map[string]any

// Tag returns the block's tag ("Heading", "Paragraph", ...) or "".
func (b Block) Tag() string {
	s, _ := b["tag"].(string)
	return s
}

// Content returns the block's content when it is a string.
func (b Block) Content() (string, bool) {
	s, ok := b["content"].(string)
	return s, ok
}

// IsError reports whether the block is an error substitute.
func (b Block) IsError() bool {
	_, ok := b["error"]
	return ok
}

// Clone deep-copies the block so annotation never aliases persisted payloads.
func (b Block) Clone() Block {
	return Block(deepCopyMap(b))
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return t
	}
}
