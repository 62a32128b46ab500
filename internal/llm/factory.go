package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a new LLM provider based on configuration. An empty
// provider name or a missing API key yields ErrNotConfigured.
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))

	// Each case returns explicitly so a failed constructor's typed nil
	// never ends up inside a non-nil Provider
	switch provider {
	case "gemini", "google":
		p, err := NewGeminiProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "openai":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "ollama":
		p, err := NewOllamaProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "anthropic", "claude":
		p, err := NewAnthropicProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "":
		return nil, ErrNotConfigured

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: gemini, openai, anthropic, ollama)", config.Provider)
	}
}
