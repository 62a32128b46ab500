package search

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ppiankov/slant/internal/model"
)

// GoogleName identifies the secondary web search provider
const GoogleName = "google_cse"

// maxPhraseTokens is the longest query wrapped in exact-phrase quotes
const maxPhraseTokens = 6

// GoogleCSE searches the web through Google Programmable Search
type GoogleCSE struct {
	client   *Client
	endpoint string
	apiKey   string
	cx       string
}

// NewGoogleCSE creates the secondary provider
func NewGoogleCSE(cfg model.GoogleConfig, client *Client) *GoogleCSE {
	return &GoogleCSE{
		client:   client,
		endpoint: cfg.Endpoint,
		apiKey:   strings.TrimSpace(cfg.APIKey),
		cx:       strings.TrimSpace(cfg.CX),
	}
}

func (g *GoogleCSE) Name() string { return GoogleName }

// Enabled requires both the API key and the search engine id
func (g *GoogleCSE) Enabled() bool { return g.apiKey != "" && g.cx != "" }

// Search runs an exact-phrase query for short inputs and falls back to the
// plain query once if the phrase search comes back empty
func (g *GoogleCSE) Search(ctx context.Context, query string) ([]model.Evidence, error) {
	if !g.Enabled() {
		return nil, &ProviderError{Provider: GoogleName, Kind: KindTransport, Err: ErrNotConfigured}
	}

	phrase, quoted := PhraseQuery(query)
	results, err := g.search(ctx, phrase)
	if err != nil || !quoted || len(results) > 0 {
		return results, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("provider", GoogleName).
		Msg("phrase search empty, retrying unquoted")

	return g.search(ctx, query)
}

func (g *GoogleCSE) search(ctx context.Context, q string) ([]model.Evidence, error) {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.cx)
	params.Set("q", q)
	params.Set("num", strconv.Itoa(MaxResults))

	var resp cseResponse
	if err := g.client.getJSON(ctx, GoogleName, g.endpoint, params, &resp); err != nil {
		return nil, err
	}

	out := make([]model.Evidence, 0, len(resp.Items))
	for _, item := range resp.Items {
		out = append(out, model.NewEvidence(item.Title, item.Link))
		if len(out) >= MaxResults {
			break
		}
	}
	return out, nil
}

// PhraseQuery wraps queries of at most six tokens in double quotes. The
// second return value reports whether quoting was applied.
func PhraseQuery(query string) (string, bool) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 || len(tokens) > maxPhraseTokens {
		return query, false
	}
	return `"` + strings.Join(tokens, " ") + `"`, true
}

type cseResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		DisplayLink string `json:"displayLink"`
		Snippet     string `json:"snippet"`
	} `json:"items"`
}
