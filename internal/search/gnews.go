package search

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/slant/internal/model"
)

// GNewsName identifies the primary news search provider
const GNewsName = "gnews"

// gnewsLanguage is the article language requested from GNews
const gnewsLanguage = "en"

// GNews searches news articles through the GNews search API
type GNews struct {
	client   *Client
	endpoint string
	apiKey   string
}

// NewGNews creates the primary provider
func NewGNews(cfg model.GNewsConfig, client *Client) *GNews {
	return &GNews{
		client:   client,
		endpoint: cfg.Endpoint,
		apiKey:   strings.TrimSpace(cfg.APIKey),
	}
}

func (g *GNews) Name() string { return GNewsName }

func (g *GNews) Enabled() bool { return g.apiKey != "" }

// Search queries GNews and maps articles to evidence
func (g *GNews) Search(ctx context.Context, query string) ([]model.Evidence, error) {
	if !g.Enabled() {
		return nil, &ProviderError{Provider: GNewsName, Kind: KindTransport, Err: ErrNotConfigured}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("lang", gnewsLanguage)
	params.Set("token", g.apiKey)
	params.Set("max", strconv.Itoa(MaxResults))

	var resp gnewsResponse
	if err := g.client.getJSON(ctx, GNewsName, g.endpoint, params, &resp); err != nil {
		return nil, err
	}

	out := make([]model.Evidence, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		out = append(out, model.NewEvidence(a.Title, a.URL))
		if len(out) >= MaxResults {
			break
		}
	}
	return out, nil
}

type gnewsResponse struct {
	TotalArticles int `json:"totalArticles"`
	Articles      []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}
