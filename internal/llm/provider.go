package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ppiankov/slant/internal/model"
)

var (
	// ErrNotConfigured means no usable summarization backend was set up
	ErrNotConfigured = errors.New("summarization provider not configured")

	// ErrEmptyResponse means the model answered without any text
	ErrEmptyResponse = errors.New("no text returned")
)

// Provider defines the interface for text generation backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate sends a fully formed prompt and returns the model's text
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one generation call
type GenerateRequest struct {
	// System is the fixed instruction sent ahead of the prompt
	System string

	// Prompt is the user message
	Prompt string

	// Model overrides the configured model
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the model output
type GenerateResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini", "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, proxies)
	BaseURL string

	// Timeout bounds a single summarization call
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int

	// StrictEvidence rejects grounded summaries citing URLs outside the evidence
	StrictEvidence bool

	// HTTPClient is used for outbound calls; nil means http.DefaultClient
	HTTPClient *http.Client
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "gemini",
		Model:     "gemini-1.5-flash",
		Timeout:   8 * time.Second,
		MaxTokens: 400,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(cfg model.LLMConfig, httpClient *http.Client) Config {
	return Config{
		Provider:       cfg.Provider,
		Model:          cfg.Model,
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.Timeout,
		MaxTokens:      cfg.MaxTokens,
		StrictEvidence: cfg.StrictEvidence,
		HTTPClient:     httpClient,
	}
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Config) maxTokens(override int) int {
	if override > 0 {
		return override
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 400
}
