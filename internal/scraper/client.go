package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"storefront-service/internal/config"
)

// FeedFetcher retrieves the raw catalog feed from the upstream
// storefront. The importer only needs this one call.
type FeedFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPFeedClient fetches the upstream product feed over HTTP.
// The upstream rejects default/anonymous clients, so every request
// carries a fixed browser user agent and referer. A token bucket
// bounds how often the feed is hit when the import endpoint is
// triggered repeatedly.
type HTTPFeedClient struct {
	httpClient *http.Client
	feedURL    string
	userAgent  string
	referer    string
	limiter    *rate.Limiter
}

// NewHTTPFeedClient builds a feed client from the scraper configuration.
func NewHTTPFeedClient(cfg config.ScraperConfig) *HTTPFeedClient {
	return &HTTPFeedClient{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		feedURL:    cfg.FeedURL,
		userAgent:  cfg.UserAgent,
		referer:    cfg.Referer,
		limiter:    rate.NewLimiter(rate.Every(cfg.MinFetchInterval), 1),
	}
}

// Fetch issues a single GET for the whole catalog. There is no retry
// and no pagination; the feed is assumed to fit one response.
func (c *HTTPFeedClient) Fetch(ctx context.Context) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Referer", c.referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}
