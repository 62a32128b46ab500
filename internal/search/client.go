package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/slant/internal/worker"
)

const maxResponseBytes = 2 << 20

// redactedParams are query parameters that carry credentials
var redactedParams = []string{"token", "key", "apikey"}

// Client performs the outbound JSON GETs shared by every provider
type Client struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	limiter    *worker.Limiter
}

// NewClient creates a provider client. timeout bounds every call; limiter
// may be nil.
func NewClient(httpClient *http.Client, userAgent string, timeout time.Duration, limiter *worker.Limiter) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
		limiter:    limiter,
	}
}

// getJSON issues GET endpoint?params and decodes the JSON body into out.
// Every failure is returned as a *ProviderError.
func (c *Client) getJSON(ctx context.Context, provider, endpoint string, params url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, err := url.Parse(endpoint)
	if err != nil {
		return &ProviderError{Provider: provider, Kind: KindTransport, Err: err}
	}
	u.RawQuery = params.Encode()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, u.String()); err != nil {
			return &ProviderError{Provider: provider, Kind: KindRateLimit, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &ProviderError{Provider: provider, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("provider", provider).
		Str("url", redactURL(u)).
		Msg("outgoing provider request")

	startAt := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return &ProviderError{Provider: provider, Kind: KindTimeout, Err: err}
		}
		return &ProviderError{Provider: provider, Kind: KindTransport, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	logger.Debug().
		Str("provider", provider).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(startAt)).
		Msg("provider response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return &ProviderError{Provider: provider, Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &ProviderError{Provider: provider, Kind: KindTimeout, Err: err}
		}
		return &ProviderError{Provider: provider, Kind: KindDecode, Err: err}
	}

	return nil
}

func redactURL(u *url.URL) string {
	clone := *u
	q := clone.Query()
	for _, name := range redactedParams {
		if q.Has(name) {
			q.Set(name, "REDACTED")
		}
	}
	clone.RawQuery = q.Encode()
	return clone.String()
}
