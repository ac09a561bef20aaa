package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client is the HTTP implementation of PageFetcher. The browser-identity
// headers it sends are supplied by the caller; holding them out of this
// package keeps the fetch layer policy-free.
type Client struct {
	client *http.Client
	logger zerolog.Logger
}

// NewClient constructs an HTTP fetcher with the given request timeout.
func NewClient(timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "fetcher").Logger(),
	}
}

// Fetch downloads the document body as text. Any transport error or
// non-2xx status is a fetch failure.
func (c *Client) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	for key, value := range headers {
		// An explicit Accept-Encoding turns off the transport's transparent
		// gzip decoding and would hand compressed bytes to extraction.
		if http.CanonicalHeaderKey(key) == "Accept-Encoding" {
			continue
		}
		req.Header.Set(key, value)
	}

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	c.logger.Debug().
		Str("url", url).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(started)).
		Msg("document fetched")
	return string(body), nil
}

var _ PageFetcher = (*Client)(nil)
