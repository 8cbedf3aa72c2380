// Package llm wraps the Gemini API behind a small client interface used for guidance enhancement.
package llm

import "github.com/google/generative-ai-go/genai"

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultTemperature keeps enhanced guidance varied but on-topic.
const DefaultTemperature float32 = 0.4

// Config holds the model configuration for a client.
type Config struct {
	Model       string
	Temperature float32
	// ResponseSchema, when set, constrains JSON responses to this shape.
	ResponseSchema *genai.Schema
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
	}
}

// WithModel returns a copy of the config using model. An empty model keeps the current one.
func (c *Config) WithModel(model string) *Config {
	next := *c
	if model != "" {
		next.Model = model
	}
	return &next
}

// WithResponseSchema returns a copy of the config constrained to schema.
func (c *Config) WithResponseSchema(schema *genai.Schema) *Config {
	next := *c
	next.ResponseSchema = schema
	return &next
}

// StringListSchema describes a JSON object whose listed keys each hold a non-empty array of strings.
func StringListSchema(keys ...string) *genai.Schema {
	props := make(map[string]*genai.Schema, len(keys))
	for _, key := range keys {
		props[key] = &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   append([]string(nil), keys...),
	}
}
