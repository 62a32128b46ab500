package pipeline

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/slant/internal/cache"
	"github.com/ppiankov/slant/internal/llm"
	"github.com/ppiankov/slant/internal/metrics"
	"github.com/ppiankov/slant/internal/model"
	"github.com/ppiankov/slant/internal/score"
	"github.com/ppiankov/slant/internal/search"
	"github.com/ppiankov/slant/internal/util"
	"github.com/ppiankov/slant/internal/worker"
)

// NewFromConfig wires the provider chain, the summarizer and the bias
// scanner from configuration. Missing credentials disable the affected
// provider and are never an error.
func NewFromConfig(cfg *model.Config, m *metrics.Metrics) (*Pipeline, error) {
	httpClient := util.NewHTTPClient(cfg.HTTP)

	var limiter *worker.Limiter
	if cfg.Search.RatePerSecond > 0 {
		limiter = worker.NewLimiter(cfg.Search.RatePerSecond, 1)
	}
	client := search.NewClient(httpClient, cfg.HTTP.UserAgent, cfg.Search.Timeout, limiter)

	var resultCache cache.Cache
	if cfg.Search.CacheTTL > 0 {
		resultCache = cache.NewMemoryCache(cfg.Search.CacheTTL, 2*cfg.Search.CacheTTL)
	}

	gnews := search.NewGNews(cfg.Search.GNews, client)
	google := search.NewGoogleCSE(cfg.Search.Google, client)

	aggregator := search.NewAggregator(m,
		search.NewCached(gnews, resultCache, cfg.Search.CacheTTL),
		search.NewCached(google, resultCache, cfg.Search.CacheTTL),
	)

	summarizer, err := newSummarizer(cfg.LLM, httpClient, m)
	if err != nil {
		return nil, err
	}

	p := New(aggregator, summarizer, score.NewBiasScanner(cfg.Bias.Lexicon), m)
	p.status = map[string]bool{
		search.GNewsName:  gnews.Enabled(),
		search.GoogleName: google.Enabled(),
		"summarizer":      summarizer.IsEnabled(),
	}
	p.reachable = summarizer.Reachable
	return p, nil
}

func newSummarizer(cfg model.LLMConfig, httpClient *http.Client, m *metrics.Metrics) (*llm.Summarizer, error) {
	llmConfig := llm.ConfigFromModel(cfg, httpClient)

	provider, err := llm.NewProvider(llmConfig)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.Warn().Str("provider", cfg.Provider).Msg("summarization provider not configured, summaries will be unavailable")
		provider = nil
	case err != nil:
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	return llm.NewSummarizer(provider, llmConfig, m), nil
}
