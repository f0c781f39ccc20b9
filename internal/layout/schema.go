package layout

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultSchema is the target shape for consolidated page output: an array of
// logical blocks. Deployments that need a different shape inject their own
// schema; the pipeline only passes it through to the consolidation prompt and
// the local validator.
func DefaultSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": true,
			"properties": map[string]any{
				"tag":     map[string]any{"type": "string", "minLength": 1},
				"content": map[string]any{"type": "string"},
				"hyperlinks": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"properties": map[string]any{
							"anchor_text": map[string]any{"type": "string"},
							"url":         map[string]any{"type": "string", "minLength": 1},
						},
						"required": []string{"url"},
					},
				},
			},
			"required": []string{"tag"},
		},
	}
}

// CompileSchema turns a generic schema map into a validator.
func CompileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("blocks-schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	s, err := c.Compile("blocks-schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
}
