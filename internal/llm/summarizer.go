package llm

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/slant/internal/metrics"
	"github.com/ppiankov/slant/internal/model"
)

// errCitationLeak is reported when a grounded summary cites an unlisted URL
var errCitationLeak = errors.New("summary cited a source outside the evidence list")

var urlPattern = regexp.MustCompile(`https?://[^\s\)\]>"']+`)

// Summarizer produces neutral summaries of highlighted text. It never
// returns an error: every failure becomes an unavailable result.
type Summarizer struct {
	provider Provider
	config   Config
	metrics  *metrics.Metrics
}

// NewSummarizer creates a summarizer. provider may be nil, in which case
// every summary is unavailable.
func NewSummarizer(provider Provider, config Config, m *metrics.Metrics) *Summarizer {
	return &Summarizer{
		provider: provider,
		config:   config,
		metrics:  m,
	}
}

// IsEnabled returns true if a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the provider name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Reachable asks the provider whether it answers with the configured
// credentials. It makes a network call and is meant for health probes.
func (s *Summarizer) Reachable(ctx context.Context) bool {
	if s.provider == nil {
		return false
	}
	timeout := s.config.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.provider.IsAvailable(ctx)
}

// Summarize summarizes text, grounded in evidence when any is given
func (s *Summarizer) Summarize(ctx context.Context, text string, evidence []model.Evidence) model.SummaryResult {
	prompt, variant := BuildPrompt(text, evidence)

	result := s.generate(ctx, prompt, variant, evidence)
	result.Variant = variant
	result.Provider = s.ProviderName()

	s.metrics.ObserveSummary(result.Provider, string(variant), result.Unavailable)

	if result.Unavailable {
		zerolog.Ctx(ctx).Warn().
			Str("provider", result.Provider).
			Str("variant", string(variant)).
			Str("reason", result.Reason).
			Msg("summary unavailable")
	}
	return result
}

func (s *Summarizer) generate(ctx context.Context, prompt string, variant model.PromptVariant, evidence []model.Evidence) model.SummaryResult {
	if s.provider == nil {
		return model.SummaryUnavailable(ErrNotConfigured.Error())
	}

	timeout := s.config.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	startAt := time.Now()
	resp, err := s.provider.Generate(ctx, GenerateRequest{
		System:    SystemPrompt,
		Prompt:    prompt,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return model.SummaryUnavailable("request timed out after " + timeout.String())
		}
		return model.SummaryUnavailable(err.Error())
	}

	if resp == nil {
		return model.SummaryUnavailable(ErrEmptyResponse.Error())
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return model.SummaryUnavailable(ErrEmptyResponse.Error())
	}

	if s.config.StrictEvidence && variant == model.VariantGrounded {
		if leaked := uncitedURLs(text, evidence); len(leaked) > 0 {
			zerolog.Ctx(ctx).Warn().Strs("urls", leaked).Msg("summary cited disallowed URLs")
			return model.SummaryUnavailable(errCitationLeak.Error())
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("provider", s.provider.Name()).
		Str("model", resp.Model).
		Int("tokens", resp.TokensUsed).
		Dur("elapsed", time.Since(startAt)).
		Msg("summary generated")

	result := model.SummaryOK(text)
	result.Model = resp.Model
	return result
}

// ExtractURLs returns the distinct http(s) URLs in text in order of first
// appearance, with trailing punctuation removed
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, u := range matches {
		u = strings.TrimRight(u, ".,;:!?")
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}
	return unique
}

// uncitedURLs returns URLs cited in text that are not among the prompt's
// evidence
func uncitedURLs(text string, evidence []model.Evidence) []string {
	if len(evidence) > MaxPromptEvidence {
		evidence = evidence[:MaxPromptEvidence]
	}
	allowed := make(map[string]bool)
	for _, u := range model.EvidenceURLs(evidence) {
		allowed[strings.TrimRight(u, "/")] = true
	}

	var leaked []string
	for _, u := range ExtractURLs(text) {
		if !allowed[strings.TrimRight(u, "/")] {
			leaked = append(leaked, u)
		}
	}
	return leaked
}
