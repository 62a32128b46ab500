package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "slant"

// Provider request outcomes
const (
	OutcomeHit     = "hit"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
	OutcomeCached  = "cached"
)

// Summary outcomes
const (
	SummaryOK          = "ok"
	SummaryUnavailable = "unavailable"
)

// Metrics holds the pipeline collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	// ProviderRequests counts search provider calls.
	// Labels: provider (gnews, google_cse), outcome (hit, empty, error, skipped, cached)
	ProviderRequests *prometheus.CounterVec

	// ProviderDuration measures search provider latency.
	// Labels: provider
	ProviderDuration *prometheus.HistogramVec

	// Summaries counts summarization attempts.
	// Labels: provider, outcome (ok, unavailable)
	Summaries *prometheus.CounterVec

	// SummaryVariants counts the prompt variant selected.
	// Labels: variant (grounded, direct)
	SummaryVariants *prometheus.CounterVec

	// Checks counts completed highlight checks
	Checks prometheus.Counter

	// CheckDuration measures end-to-end check latency
	CheckDuration prometheus.Histogram

	// BiasTerms counts lexicon matches.
	// Labels: term
	BiasTerms *prometheus.CounterVec
}

// New registers the pipeline collectors with reg. A nil reg uses a private
// registry, which keeps tests isolated.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		ProviderRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_requests_total",
				Help:      "Search provider calls by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),

		ProviderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_request_duration_seconds",
				Help:      "Search provider call latency in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
			},
			[]string{"provider"},
		),

		Summaries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summaries_total",
				Help:      "Summarization attempts by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),

		SummaryVariants: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summary_variant_total",
				Help:      "Summaries requested by prompt variant",
			},
			[]string{"variant"},
		),

		Checks: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checks_total",
				Help:      "Completed highlight checks",
			},
		),

		CheckDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "check_duration_seconds",
				Help:      "End-to-end highlight check latency in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
			},
		),

		BiasTerms: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bias_terms_detected_total",
				Help:      "Bias lexicon matches by term",
			},
			[]string{"term"},
		),
	}
}

// ObserveProvider records one provider call
func (m *Metrics) ObserveProvider(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(provider, outcome).Inc()
	if outcome != OutcomeSkipped && outcome != OutcomeCached {
		m.ProviderDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	}
}

// ObserveSummary records one summarization attempt
func (m *Metrics) ObserveSummary(provider, variant string, unavailable bool) {
	if m == nil {
		return
	}
	if provider == "" {
		provider = "none"
	}
	outcome := SummaryOK
	if unavailable {
		outcome = SummaryUnavailable
	}
	m.Summaries.WithLabelValues(provider, outcome).Inc()
	m.SummaryVariants.WithLabelValues(variant).Inc()
}

// ObserveCheck records one completed check and its bias matches
func (m *Metrics) ObserveCheck(elapsed time.Duration, biasTerms []string) {
	if m == nil {
		return
	}
	m.Checks.Inc()
	m.CheckDuration.Observe(elapsed.Seconds())
	for _, term := range biasTerms {
		m.BiasTerms.WithLabelValues(term).Inc()
	}
}
