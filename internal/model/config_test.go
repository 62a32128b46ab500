package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8*time.Second, cfg.Search.Timeout)
	assert.Equal(t, DefaultLexicon, cfg.Bias.Lexicon)
}

func TestConfig_MissingCredentialsAreValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.GNews.APIKey = ""
	cfg.Search.Google.APIKey = ""
	cfg.LLM.APIKey = ""
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero search timeout", func(c *Config) { c.Search.Timeout = 0 }},
		{"negative rate", func(c *Config) { c.Search.RatePerSecond = -1 }},
		{"unknown llm provider", func(c *Config) { c.LLM.Provider = "palm" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"empty lexicon term", func(c *Config) { c.Bias.Lexicon = []string{"chaos", ""} }},
		{"bad addr", func(c *Config) { c.Server.Addr = "not an addr" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_LLMProviderNames(t *testing.T) {
	for _, name := range []string{"", "gemini", "google", "openai", "anthropic", "claude", "ollama"} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LLM.Provider = name
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestConfig_Redacted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.GNews.APIKey = "gnews-secret"
	cfg.LLM.APIKey = "llm-secret"

	red := cfg.Redacted()
	assert.Equal(t, "********", red.Search.GNews.APIKey)
	assert.Equal(t, "********", red.LLM.APIKey)
	assert.Empty(t, red.Search.Google.APIKey)

	// Original untouched
	assert.Equal(t, "gnews-secret", cfg.Search.GNews.APIKey)
}
