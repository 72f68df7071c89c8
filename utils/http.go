package utils

import (
	"context"
	"fmt"
	"net/http"

	"bookscraper/internal/types"

	"github.com/go-resty/resty/v2"
)

// HTTPClient fetches static pages with a shared request delay.
// It never retries: the first failure is returned to the caller.
type HTTPClient struct {
	client  *resty.Client
	config  *types.Config
	logger  types.Logger
	limiter *RateLimiter
}

// NewHTTPClient creates a new HTTP client with the given configuration.
// Requests carry the configured User-Agent and time out after Config.Timeout;
// consecutive requests are spaced by Config.RequestDelay.
func NewHTTPClient(config *types.Config, logger types.Logger) *HTTPClient {
	client := resty.New().
		SetTimeout(config.Timeout).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.5")

	return &HTTPClient{
		client:  client,
		config:  config,
		logger:  logger,
		limiter: NewRateLimiter(config.RequestDelay),
	}
}

// Get performs a GET request and returns the body of a 200 response.
// Any other status code is an error.
func (h *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	// Wait for rate limiter
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	h.logger.Debugf("Making request to %s", url)
	resp, err := h.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	// Check status code
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	body := resp.Body()
	h.logger.Debugf("Successfully retrieved %d bytes from %s", len(body), url)
	return body, nil
}

// Close cleans up resources
func (h *HTTPClient) Close() {
	h.client.GetClient().CloseIdleConnections()
}
