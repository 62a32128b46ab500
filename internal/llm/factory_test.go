package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantErr  error
	}{
		{"gemini", Config{Provider: "gemini", APIKey: "k"}, "gemini", nil},
		{"gemini uppercase", Config{Provider: "Gemini", APIKey: "k"}, "gemini", nil},
		{"openai", Config{Provider: "openai", APIKey: "k"}, "openai", nil},
		{"anthropic", Config{Provider: "anthropic", APIKey: "k"}, "anthropic", nil},
		{"claude alias", Config{Provider: "claude", APIKey: "k"}, "anthropic", nil},
		{"ollama without key", Config{Provider: "ollama"}, "ollama", nil},
		{"disabled", Config{Provider: ""}, "", ErrNotConfigured},
		{"gemini missing key", Config{Provider: "gemini"}, "", ErrNotConfigured},
		{"openai missing key", Config{Provider: "openai"}, "", ErrNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, provider)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, provider.Name())
		})
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(Config{Provider: "palm"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "unknown LLM provider")
}
