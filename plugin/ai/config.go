package ai

import "fmt"

// LLMConfig configures the chat completion provider. Any endpoint that
// speaks the OpenAI chat API works; provider presets only set a base URL.
type LLMConfig struct {
	Provider   string
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
}

// Provider presets.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Default endpoints and models per provider.
const (
	openAIBaseURL = "https://api.openai.com/v1"
	openAIModel   = "gpt-4o"

	// Gemini exposes an OpenAI-compatible endpoint.
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	geminiModel   = "gemini-2.0-flash"
)

// DefaultLLMConfig returns the OpenAI preset.
func DefaultLLMConfig() *LLMConfig {
	return &LLMConfig{
		Provider:   ProviderOpenAI,
		BaseURL:    openAIBaseURL,
		Model:      openAIModel,
		MaxRetries: 3,
	}
}

// ApplyDefaults fills unset fields from the provider preset.
func (c *LLMConfig) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}

	switch c.Provider {
	case ProviderGemini:
		if c.BaseURL == "" {
			c.BaseURL = geminiBaseURL
		}
		if c.Model == "" {
			c.Model = geminiModel
		}
	default:
		if c.BaseURL == "" {
			c.BaseURL = openAIBaseURL
		}
		if c.Model == "" {
			c.Model = openAIModel
		}
	}
}

// Validate checks that the config can produce a working client.
func (c *LLMConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("llm config: API key is required")
	}
	if c.Model == "" {
		return fmt.Errorf("llm config: model is required")
	}
	return nil
}
