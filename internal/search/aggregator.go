package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/slant/internal/metrics"
	"github.com/ppiankov/slant/internal/model"
)

type lookuper interface {
	Lookup(query string) ([]model.Evidence, bool)
}

// Aggregator runs providers in strict priority order and returns the first
// non-empty result. Provider failures are logged and count as empty.
type Aggregator struct {
	providers []Provider
	metrics   *metrics.Metrics
}

// NewAggregator creates an aggregator over providers in priority order.
// m may be nil.
func NewAggregator(m *metrics.Metrics, providers ...Provider) *Aggregator {
	return &Aggregator{
		providers: providers,
		metrics:   m,
	}
}

// Aggregate never fails. It returns an empty, non-nil list when no provider
// produced evidence or when query is blank.
func (a *Aggregator) Aggregate(ctx context.Context, query string) []model.Evidence {
	logger := zerolog.Ctx(ctx)

	if strings.TrimSpace(query) == "" {
		for _, p := range a.providers {
			a.metrics.ObserveProvider(p.Name(), metrics.OutcomeSkipped, 0)
		}
		logger.Debug().Msg("empty query, skipping source providers")
		return []model.Evidence{}
	}

	for _, p := range a.providers {
		if !p.Enabled() {
			a.metrics.ObserveProvider(p.Name(), metrics.OutcomeSkipped, 0)
			continue
		}

		if l, ok := p.(lookuper); ok {
			if ev, hit := l.Lookup(query); hit && len(ev) > 0 {
				a.metrics.ObserveProvider(p.Name(), metrics.OutcomeCached, 0)
				logger.Debug().Str("provider", p.Name()).Int("results", len(ev)).Msg("provider cache hit")
				return ev
			}
		}

		startAt := time.Now()
		ev, err := p.Search(ctx, query)
		elapsed := time.Since(startAt)

		if err != nil {
			a.metrics.ObserveProvider(p.Name(), metrics.OutcomeError, elapsed)
			event := logger.Warn().Err(err).Str("provider", p.Name()).Dur("elapsed", elapsed)
			var perr *ProviderError
			if errors.As(err, &perr) {
				event = event.Str("kind", string(perr.Kind))
				if perr.StatusCode != 0 {
					event = event.Int("status", perr.StatusCode)
				}
			}
			event.Msg("source provider failed, treating as empty")
			continue
		}

		if len(ev) == 0 {
			a.metrics.ObserveProvider(p.Name(), metrics.OutcomeEmpty, elapsed)
			logger.Debug().Str("provider", p.Name()).Msg("source provider returned no results")
			continue
		}

		a.metrics.ObserveProvider(p.Name(), metrics.OutcomeHit, elapsed)
		logger.Debug().Str("provider", p.Name()).Int("results", len(ev)).Msg("source provider hit")
		return ev
	}

	return []model.Evidence{}
}
