package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/slant/internal/model"
	"github.com/ppiankov/slant/internal/score"
)

type mockAggregator struct {
	mu       sync.Mutex
	evidence []model.Evidence
	queries  []string
}

func (m *mockAggregator) Aggregate(ctx context.Context, query string) []model.Evidence {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if query == "" {
		return []model.Evidence{}
	}
	return append([]model.Evidence{}, m.evidence...)
}

type mockSummarizer struct {
	mu       sync.Mutex
	calls    int
	evidence [][]model.Evidence
	texts    []string
	result   func(evidence []model.Evidence) model.SummaryResult
}

func (m *mockSummarizer) Summarize(ctx context.Context, text string, evidence []model.Evidence) model.SummaryResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.texts = append(m.texts, text)
	m.evidence = append(m.evidence, evidence)
	if m.result != nil {
		return m.result(evidence)
	}
	if len(evidence) == 0 {
		r := model.SummaryOK("Direct summary.")
		r.Variant = model.VariantDirect
		return r
	}
	r := model.SummaryOK("Grounded summary.")
	r.Variant = model.VariantGrounded
	return r
}

func TestPipeline_Check_WithEvidence(t *testing.T) {
	agg := &mockAggregator{evidence: []model.Evidence{{Title: "A", URL: "u1"}, {Title: "B", URL: "u2"}}}
	sum := &mockSummarizer{}
	p := New(agg, sum, score.NewBiasScanner(nil), nil)

	result := p.Check(context.Background(), model.HighlightRequest{Text: "Experts call the decision shocking"})

	assert.Equal(t, "Experts call the decision shocking", result.SelectedText)
	assert.Contains(t, result.BiasNotes, "shocking")
	assert.Equal(t, []model.Evidence{{Title: "A", URL: "u1"}, {Title: "B", URL: "u2"}}, result.Sources)
	assert.Equal(t, "Grounded summary.", result.Summary)

	require.Equal(t, 1, sum.calls)
	assert.Len(t, sum.evidence[0], 2)
	assert.Equal(t, []string{"Experts call the decision shocking"}, agg.queries)
}

func TestPipeline_Check_EmptyText(t *testing.T) {
	agg := &mockAggregator{evidence: []model.Evidence{{Title: "A", URL: "u1"}}}
	sum := &mockSummarizer{}
	p := New(agg, sum, nil, nil)

	result := p.Check(context.Background(), model.HighlightRequest{Text: ""})

	assert.Equal(t, "", result.SelectedText)
	assert.Equal(t, []model.Evidence{model.PlaceholderEvidence()}, result.Sources)
	assert.Equal(t, model.NoBiasDetected, result.BiasNotes)
	assert.Equal(t, "Direct summary.", result.Summary)
	assert.Equal(t, []string{""}, agg.queries)
	require.Equal(t, 1, sum.calls)
}

func TestPipeline_Check_PlaceholderNeverReachesSummarizer(t *testing.T) {
	agg := &mockAggregator{}
	sum := &mockSummarizer{}
	p := New(agg, sum, nil, nil)

	result := p.Check(context.Background(), model.HighlightRequest{Text: "Markets in chaos!!"})

	require.Equal(t, 1, sum.calls)
	assert.Empty(t, sum.evidence[0])
	assert.Equal(t, []model.Evidence{model.PlaceholderEvidence()}, result.Sources)
	assert.Equal(t, "chaos", result.BiasNotes)
	assert.Equal(t, []string{"Markets in chaos"}, agg.queries)
}

func TestPipeline_Check_SummaryUnavailable(t *testing.T) {
	sum := &mockSummarizer{result: func([]model.Evidence) model.SummaryResult {
		return model.SummaryUnavailable("Gemini API error: 503 overloaded")
	}}
	p := New(&mockAggregator{}, sum, nil, nil)

	result := p.Check(context.Background(), model.HighlightRequest{Text: "calm report"})

	assert.Equal(t, "Summary unavailable: Gemini API error: 503 overloaded", result.Summary)
	assert.Equal(t, model.NoBiasDetected, result.BiasNotes)
	assert.Len(t, result.Sources, 1)
}

func TestPipeline_Check_TrimsSelectedText(t *testing.T) {
	sum := &mockSummarizer{}
	p := New(&mockAggregator{}, sum, nil, nil)

	result := p.Check(context.Background(), model.HighlightRequest{Text: "  \n A slammed decision \t"})

	assert.Equal(t, "A slammed decision", result.SelectedText)
	assert.Equal(t, []string{"A slammed decision"}, sum.texts)
	assert.Equal(t, "slam, slammed", result.BiasNotes)
}

func TestPipeline_Check_SourcesNeverEmpty(t *testing.T) {
	inputs := []string{"", "   ", "!!!", "🙂🙂", "<b></b>", "Experts call the decision shocking", "calm report"}

	for _, text := range inputs {
		p := New(&mockAggregator{}, &mockSummarizer{}, nil, nil)
		result := p.Check(context.Background(), model.HighlightRequest{Text: text})

		assert.NotEmpty(t, result.Sources, "text %q", text)
		assert.NotEmpty(t, result.Summary, "text %q", text)
		assert.NotEmpty(t, result.BiasNotes, "text %q", text)
	}
}

func TestPipeline_Check_SummarizerPanicDegrades(t *testing.T) {
	agg := &mockAggregator{evidence: []model.Evidence{{Title: "A", URL: "u1"}}}
	sum := &mockSummarizer{result: func([]model.Evidence) model.SummaryResult {
		panic("backend returned nothing")
	}}
	p := New(agg, sum, score.NewBiasScanner(nil), nil)

	var result model.CheckResult
	require.NotPanics(t, func() {
		result = p.Check(context.Background(), model.HighlightRequest{Text: "Markets in chaos"})
	})

	assert.Equal(t, "Summary unavailable: internal error", result.Summary)
	assert.Equal(t, "chaos", result.BiasNotes)
	assert.Equal(t, []model.Evidence{{Title: "A", URL: "u1"}}, result.Sources)
}

func TestPipeline_Probe(t *testing.T) {
	p := New(&mockAggregator{}, &mockSummarizer{}, nil, nil)
	p.status = map[string]bool{"gnews": true}

	assert.Equal(t, map[string]bool{"gnews": true, "summarizer_reachable": false}, p.Probe(context.Background()))

	p.reachable = func(context.Context) bool { return true }
	assert.Equal(t, map[string]bool{"gnews": true, "summarizer_reachable": true}, p.Probe(context.Background()))
	assert.Equal(t, map[string]bool{"gnews": true}, p.Status())
}

func TestCompose_DoesNotModifyEvidence(t *testing.T) {
	evidence := make([]model.Evidence, 0, 4)
	evidence = append(evidence, model.Evidence{Title: "A", URL: "u1"})

	result := Compose("t", model.SummaryOK("s"), model.BiasFindings{}, evidence)
	result.Sources[0].Title = "changed"

	assert.Equal(t, "A", evidence[0].Title)
}
