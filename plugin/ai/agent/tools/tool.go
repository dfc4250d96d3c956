// Package tools implements the assistant's tool boundary: each operation
// is a named, independently invocable function taking JSON-primitive
// arguments and returning one human-readable text block. Structured
// service results are formatted into display text here and nowhere else.
package tools

import "context"

// Tool is the contract exposed to the LLM-driven agent loop.
type Tool interface {
	// Name returns the tool's identifier.
	Name() string

	// Description returns the tool description for the LLM.
	Description() string

	// InputType returns the JSON Schema for the tool's input.
	InputType() map[string]interface{}

	// Run executes the tool. Domain failures (bad input, provider or
	// auth errors, empty results) are converted into descriptive text,
	// never returned as errors; an error return means the input JSON
	// itself was unusable.
	Run(ctx context.Context, inputJSON string) (string, error)
}

func stringProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func integerProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
