package utils

import (
	"context"
	"fmt"

	"bookscraper/internal/types"

	"github.com/chromedp/chromedp"
)

// BrowserClient renders pages in a single headless Chrome instance, one tab per page.
// Page loads are spaced by Config.RequestDelay, as with HTTPClient.
type BrowserClient struct {
	config  *types.Config
	logger  types.Logger
	limiter *RateLimiter

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	started       bool
}

// NewBrowserClient creates a new browser client. Chrome is launched on the first fetch.
func NewBrowserClient(config *types.Config, logger types.Logger) *BrowserClient {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(config.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Debugf),
		chromedp.WithErrorf(logger.Debugf),
	)

	return &BrowserClient{
		config:        config,
		logger:        logger,
		limiter:       NewRateLimiter(config.RequestDelay),
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}
}

func (b *BrowserClient) start() error {
	if b.started {
		return nil
	}
	if err := chromedp.Run(b.browserCtx); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	b.started = true
	b.logger.Debug("Headless browser started")
	return nil
}

// GetPageContent navigates to url, waits until the configured selector is ready and
// returns the rendered HTML. The wait is bounded by Config.Timeout.
func (b *BrowserClient) GetPageContent(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := b.start(); err != nil {
		return "", err
	}

	// Wait for rate limiter
	if err := b.limiter.Wait(ctx); err != nil {
		return "", err
	}

	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.config.Timeout)
	defer cancelTimeout()

	// chromedp contexts hang off the allocator, so tie the tab to the caller too
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(b.config.WaitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("failed to get page content (waiting for %s): %w", b.config.WaitSelector, err)
	}

	b.logger.Debugf("Successfully retrieved page content from %s (%d bytes)", url, len(html))
	return html, nil
}

// Close shuts the browser down
func (b *BrowserClient) Close() {
	if b.browserCancel != nil {
		b.browserCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
}
