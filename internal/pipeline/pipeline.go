package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/slant/internal/extract"
	"github.com/ppiankov/slant/internal/metrics"
	"github.com/ppiankov/slant/internal/model"
	"github.com/ppiankov/slant/internal/score"
)

// Aggregator gathers evidence for a normalized query. It never fails.
type Aggregator interface {
	Aggregate(ctx context.Context, query string) []model.Evidence
}

// Summarizer summarizes text, grounded in evidence when any is given. It
// never fails.
type Summarizer interface {
	Summarize(ctx context.Context, text string, evidence []model.Evidence) model.SummaryResult
}

// Pipeline orchestrates one highlight check
type Pipeline struct {
	aggregator Aggregator
	summarizer Summarizer
	bias       *score.BiasScanner
	metrics    *metrics.Metrics
	status     map[string]bool
	reachable  func(ctx context.Context) bool
}

// New creates a pipeline from its parts. m may be nil.
func New(aggregator Aggregator, summarizer Summarizer, bias *score.BiasScanner, m *metrics.Metrics) *Pipeline {
	if bias == nil {
		bias = score.NewBiasScanner(nil)
	}
	return &Pipeline{
		aggregator: aggregator,
		summarizer: summarizer,
		bias:       bias,
		metrics:    m,
		status:     map[string]bool{},
	}
}

// Status reports which collaborators are configured, keyed by name
func (p *Pipeline) Status() map[string]bool {
	out := make(map[string]bool, len(p.status))
	for k, v := range p.status {
		out[k] = v
	}
	return out
}

// Probe extends Status with "summarizer_reachable", which asks the
// summarization backend whether it answers. It makes a network call.
func (p *Pipeline) Probe(ctx context.Context) map[string]bool {
	out := p.Status()
	out["summarizer_reachable"] = p.reachable != nil && p.reachable(ctx)
	return out
}

// Check runs the bias scan alongside evidence aggregation and
// summarization, then composes the result. Failures degrade into the
// result's content; Check itself cannot fail.
func (p *Pipeline) Check(ctx context.Context, req model.HighlightRequest) model.CheckResult {
	startAt := time.Now()
	text := strings.TrimSpace(req.Text)

	var (
		findings model.BiasFindings
		evidence []model.Evidence
		summary  model.SummaryResult
		g        errgroup.Group
	)

	g.Go(func() error {
		defer recoverStage(ctx, "bias", func() { findings = model.BiasFindings{} })
		findings = p.bias.Scan(text)
		return nil
	})

	g.Go(func() error {
		defer recoverStage(ctx, "summarize", func() { summary = model.SummaryUnavailable("internal error") })
		query := extract.NormalizeQuery(text)
		evidence = p.aggregator.Aggregate(ctx, query)
		summary = p.summarizer.Summarize(ctx, text, evidence)
		return nil
	})

	_ = g.Wait()

	result := Compose(text, summary, findings, evidence)

	elapsed := time.Since(startAt)
	p.metrics.ObserveCheck(elapsed, findings.Terms)

	zerolog.Ctx(ctx).Info().
		Int("text_len", len(text)).
		Int("evidence", len(evidence)).
		Str("variant", string(summary.Variant)).
		Bool("summary_unavailable", summary.Unavailable).
		Strs("bias_terms", findings.Terms).
		Dur("elapsed", elapsed).
		Msg("check complete")

	return result
}

// recoverStage turns a panic in a check stage into its fallback value so
// the caller still gets a result
func recoverStage(ctx context.Context, stage string, fallback func()) {
	if r := recover(); r != nil {
		zerolog.Ctx(ctx).Error().
			Str("stage", stage).
			Interface("panic", r).
			Msg("check stage panicked")
		fallback()
	}
}

// Compose builds the caller-facing result. An empty evidence list is
// replaced by the single placeholder source; evidence is not modified.
func Compose(text string, summary model.SummaryResult, findings model.BiasFindings, evidence []model.Evidence) model.CheckResult {
	sources := make([]model.Evidence, 0, len(evidence)+1)
	sources = append(sources, evidence...)
	if len(sources) == 0 {
		sources = append(sources, model.PlaceholderEvidence())
	}

	return model.CheckResult{
		SelectedText: text,
		Summary:      summary.String(),
		BiasNotes:    findings.String(),
		Sources:      sources,
	}
}
