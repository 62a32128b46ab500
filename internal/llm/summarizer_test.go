package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/slant/internal/metrics"
	"github.com/ppiankov/slant/internal/model"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *GenerateResponse
	err       error
	delay     time.Duration
	calls     int
	requests  []GenerateRequest
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	m.calls++
	m.requests = append(m.requests, req)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func TestSummarizer_Disabled(t *testing.T) {
	s := NewSummarizer(nil, Config{}, nil)
	assert.False(t, s.IsEnabled())
	assert.Equal(t, "", s.ProviderName())

	result := s.Summarize(context.Background(), "Markets in chaos", nil)
	assert.True(t, result.Unavailable)
	assert.Equal(t, "Summary unavailable: summarization provider not configured", result.String())
	assert.Equal(t, model.VariantDirect, result.Variant)
}

func TestSummarizer_Grounded(t *testing.T) {
	mock := &MockProvider{name: "mock", response: &GenerateResponse{Text: " Grounded summary. ", Model: "m1"}}
	s := NewSummarizer(mock, Config{MaxTokens: 300}, nil)

	evidence := []model.Evidence{{Title: "A", URL: "u1"}, {Title: "B", URL: "u2"}}
	result := s.Summarize(context.Background(), "Experts call the decision shocking", evidence)

	assert.False(t, result.Unavailable)
	assert.Equal(t, "Grounded summary.", result.String())
	assert.Equal(t, model.VariantGrounded, result.Variant)
	assert.Equal(t, "mock", result.Provider)
	assert.Equal(t, "m1", result.Model)

	require.Equal(t, 1, mock.calls)
	assert.Equal(t, SystemPrompt, mock.requests[0].System)
	assert.Equal(t, 300, mock.requests[0].MaxTokens)
	assert.Contains(t, mock.requests[0].Prompt, "- A (u1)")
}

func TestSummarizer_DirectWhenNoEvidence(t *testing.T) {
	mock := &MockProvider{name: "mock", response: &GenerateResponse{Text: "Direct summary."}}
	m := metrics.New(nil)
	s := NewSummarizer(mock, Config{}, m)

	result := s.Summarize(context.Background(), "Markets in chaos", []model.Evidence{})

	assert.Equal(t, 1, mock.calls)
	assert.Equal(t, model.VariantDirect, result.Variant)
	assert.NotContains(t, mock.requests[0].Prompt, "Sources:")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SummaryVariants.WithLabelValues("direct")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SummaryVariants.WithLabelValues("grounded")))
}

func TestSummarizer_ProviderError(t *testing.T) {
	mock := &MockProvider{name: "mock", err: errors.New("Gemini API error: 403 API key not valid")}
	m := metrics.New(nil)
	s := NewSummarizer(mock, Config{}, m)

	result := s.Summarize(context.Background(), "text", nil)

	assert.True(t, result.Unavailable)
	assert.Equal(t, "Summary unavailable: Gemini API error: 403 API key not valid", result.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Summaries.WithLabelValues("mock", metrics.SummaryUnavailable)))
}

func TestSummarizer_EmptyResponse(t *testing.T) {
	mock := &MockProvider{name: "mock", response: &GenerateResponse{Text: "   "}}
	s := NewSummarizer(mock, Config{}, nil)

	result := s.Summarize(context.Background(), "text", nil)

	assert.True(t, result.Unavailable)
	assert.Equal(t, ErrEmptyResponse.Error(), result.Reason)
}

func TestSummarizer_NilResponse(t *testing.T) {
	mock := &MockProvider{name: "mock"}
	s := NewSummarizer(mock, Config{}, nil)

	var result model.SummaryResult
	require.NotPanics(t, func() {
		result = s.Summarize(context.Background(), "text", nil)
	})
	assert.True(t, result.Unavailable)
	assert.Equal(t, ErrEmptyResponse.Error(), result.Reason)
}

func TestSummarizer_Timeout(t *testing.T) {
	mock := &MockProvider{name: "mock", delay: time.Second, response: &GenerateResponse{Text: "late"}}
	s := NewSummarizer(mock, Config{Timeout: 20 * time.Millisecond}, nil)

	result := s.Summarize(context.Background(), "text", nil)

	assert.True(t, result.Unavailable)
	assert.Contains(t, result.Reason, "timed out")
}

func TestSummarizer_StrictEvidence(t *testing.T) {
	evidence := []model.Evidence{{Title: "A", URL: "https://example.com/a"}}

	tests := []struct {
		name        string
		text        string
		strict      bool
		unavailable bool
	}{
		{"cites listed source", "Reported by https://example.com/a.", true, false},
		{"cites unlisted source", "See https://elsewhere.example.org/story for more.", true, true},
		{"no citations", "A neutral summary.", true, false},
		{"strict off", "See https://elsewhere.example.org/story for more.", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockProvider{name: "mock", response: &GenerateResponse{Text: tt.text}}
			s := NewSummarizer(mock, Config{StrictEvidence: tt.strict}, nil)

			result := s.Summarize(context.Background(), "text", evidence)
			assert.Equal(t, tt.unavailable, result.Unavailable)
			if tt.unavailable {
				assert.Equal(t, "summary cited a source outside the evidence list", result.Reason)
			}
		})
	}
}

func TestSummarizer_StrictEvidenceIgnoredOnDirectPath(t *testing.T) {
	mock := &MockProvider{name: "mock", response: &GenerateResponse{Text: "See https://example.org/x"}}
	s := NewSummarizer(mock, Config{StrictEvidence: true}, nil)

	result := s.Summarize(context.Background(), "text", nil)
	assert.False(t, result.Unavailable)
}

func TestSummarizer_StrictEvidenceOnlyPromptSources(t *testing.T) {
	evidence := []model.Evidence{
		{Title: "A", URL: "https://example.com/a/"},
		{Title: "B", URL: "https://example.com/b"},
		{Title: "C", URL: "https://example.com/c"},
		{Title: "D", URL: "https://example.com/d"},
	}

	mock := &MockProvider{name: "mock", response: &GenerateResponse{Text: "Per https://example.com/a and https://example.com/c"}}
	s := NewSummarizer(mock, Config{StrictEvidence: true}, nil)
	assert.False(t, s.Summarize(context.Background(), "text", evidence).Unavailable)

	mock.response = &GenerateResponse{Text: "Per https://example.com/d"}
	assert.True(t, s.Summarize(context.Background(), "text", evidence).Unavailable, "fourth source never reached the prompt")
}

func TestSummarizer_Reachable(t *testing.T) {
	assert.False(t, NewSummarizer(nil, Config{}, nil).Reachable(context.Background()))
	assert.False(t, NewSummarizer(&MockProvider{name: "mock"}, Config{}, nil).Reachable(context.Background()))
	assert.True(t, NewSummarizer(&MockProvider{name: "mock", available: true}, Config{}, nil).Reachable(context.Background()))
}

func TestExtractURLs(t *testing.T) {
	text := "See https://a.example/x, and http://b.example/y. Again https://a.example/x (https://c.example/z)"
	assert.Equal(t, []string{"https://a.example/x", "http://b.example/y", "https://c.example/z"}, ExtractURLs(text))
	assert.Empty(t, ExtractURLs("no links here"))
}
