package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req anthropicRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, SystemPrompt, req.System)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "prompt text", req.Messages[0].Content)
		}

		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"content": [{"type": "text", "text": "Claude summary."}],
			"model": "claude-3-5-haiku-20241022",
			"usage": {"input_tokens": 30, "output_tokens": 20}
		}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := provider.Generate(context.Background(), GenerateRequest{System: SystemPrompt, Prompt: "prompt text"})
	require.NoError(t, err)
	assert.Equal(t, "Claude summary.", resp.Text)
	assert.Equal(t, 50, resp.TokensUsed)
}

func TestAnthropicProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = provider.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication_error")
	assert.False(t, provider.IsAvailable(context.Background()))
}

func TestAnthropicProvider_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": []}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = provider.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestAnthropicProvider_MissingKey(t *testing.T) {
	_, err := NewAnthropicProvider(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
