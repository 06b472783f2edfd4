package openaicompat

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Model output that feeds typed structures is validated against a JSON-Schema
// before acceptance, so malformed-but-parseable responses fail loudly instead
// of decoding into zero values.

func validationSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"verdicts"},
		"properties": map[string]any{
			"verdicts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"field", "valid"},
					"properties": map[string]any{
						"field":  map[string]any{"type": "string", "minLength": 1},
						"valid":  map[string]any{"type": "boolean"},
						"reason": map[string]any{"type": []string{"string", "null"}},
					},
				},
			},
		},
	}
}

func classificationSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"label"},
		"properties": map[string]any{
			"label":      map[string]any{"type": "string", "minLength": 1},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
	}
}

func validateAgainstSchema(schemaMap map[string]any, value any) error {
	encoded, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	// Round-trip so typed maps validate the same as decoded JSON.
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("unmarshal value: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return fmt.Errorf("model output does not match schema: %w", err)
	}
	return nil
}
