package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the process-wide configuration, loaded once at startup
type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Search SearchConfig `yaml:"search" mapstructure:"search"`
	LLM    LLMConfig    `yaml:"llm" mapstructure:"llm"`
	Bias   BiasConfig   `yaml:"bias" mapstructure:"bias"`
	HTTP   HTTPConfig   `yaml:"http" mapstructure:"http"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the inbound HTTP endpoint
type ServerConfig struct {
	Addr         string   `yaml:"addr" mapstructure:"addr" validate:"required,hostname_port"`
	MaxBodyBytes int64    `yaml:"max_body_bytes" mapstructure:"max_body_bytes" validate:"gt=0"`
	CORSOrigins  []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// SearchConfig configures the source provider chain
type SearchConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`                  // Per-call timeout
	RatePerSecond float64       `yaml:"rate_per_second" mapstructure:"rate_per_second" validate:"gte=0"` // 0 = unlimited
	CacheTTL      time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl" validate:"gte=0"`             // 0 = no caching

	GNews  GNewsConfig  `yaml:"gnews" mapstructure:"gnews"`
	Google GoogleConfig `yaml:"google" mapstructure:"google"`
}

// GNewsConfig configures the primary search provider
type GNewsConfig struct {
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"required,url"`
}

// GoogleConfig configures the secondary search provider (Programmable Search)
type GoogleConfig struct {
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	CX       string `yaml:"cx" mapstructure:"cx"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"required,url"`
}

// LLMConfig configures the summarization backend
type LLMConfig struct {
	Provider       string        `yaml:"provider" mapstructure:"provider" validate:"omitempty,oneof=gemini google openai anthropic claude ollama"`
	Model          string        `yaml:"model" mapstructure:"model"`
	APIKey         string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL        string        `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	MaxTokens      int           `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`
	StrictEvidence bool          `yaml:"strict_evidence" mapstructure:"strict_evidence"`
}

// BiasConfig configures the lexical bias scan
type BiasConfig struct {
	Lexicon []string `yaml:"lexicon" mapstructure:"lexicon" validate:"dive,required"`
}

// HTTPConfig configures outbound HTTP
type HTTPConfig struct {
	UserAgent  string `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=console json"`
}

// DefaultLexicon is the built-in list of bias-indicating words
var DefaultLexicon = []string{
	"shocking", "disaster", "chaos", "crisis", "unprecedented",
	"slam", "slammed", "furious", "outrage", "explosive",
	"catastrophic", "rigged", "fake", "corrupt", "witch hunt",
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         "127.0.0.1:5000",
			MaxBodyBytes: 1 << 20,
			CORSOrigins:  []string{"*"},
		},
		Search: SearchConfig{
			Timeout: 8 * time.Second,
			GNews: GNewsConfig{
				Endpoint: "https://gnews.io/api/v4/search",
			},
			Google: GoogleConfig{
				Endpoint: "https://www.googleapis.com/customsearch/v1",
			},
		},
		LLM: LLMConfig{
			Provider:  "gemini",
			Model:     "gemini-1.5-flash",
			Timeout:   8 * time.Second,
			MaxTokens: 400,
		},
		Bias: BiasConfig{
			Lexicon: append([]string(nil), DefaultLexicon...),
		},
		HTTP: HTTPConfig{
			UserAgent: "Slant/0.1 (+https://github.com/ppiankov/slant)",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration. Missing provider credentials are not
// errors: they disable the provider.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Redacted returns a copy safe to print, with credentials masked
func (c Config) Redacted() Config {
	c.Search.GNews.APIKey = mask(c.Search.GNews.APIKey)
	c.Search.Google.APIKey = mask(c.Search.Google.APIKey)
	c.LLM.APIKey = mask(c.LLM.APIKey)
	c.Bias.Lexicon = append([]string(nil), c.Bias.Lexicon...)
	c.Server.CORSOrigins = append([]string(nil), c.Server.CORSOrigins...)
	return c
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
