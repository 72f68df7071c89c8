package adapters

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"bookscraper/internal/types"
	"bookscraper/utils"

	"github.com/PuerkitoBio/goquery"
)

// BaseAdapter provides page loading and selector helpers shared by site adapters.
// Pages come from a headless browser or a plain HTTP client depending on
// Config.UseHeadlessBrowser.
type BaseAdapter struct {
	config        *types.Config
	logger        types.Logger
	httpClient    *utils.HTTPClient
	browserClient *utils.BrowserClient
}

// NewBaseAdapter creates a base adapter. Only the client the configuration asks for is built.
func NewBaseAdapter(config *types.Config, logger types.Logger) *BaseAdapter {
	b := &BaseAdapter{
		config: config,
		logger: logger,
	}
	if config.UseHeadlessBrowser {
		b.browserClient = utils.NewBrowserClient(config, logger)
	} else {
		b.httpClient = utils.NewHTTPClient(config, logger)
	}
	return b
}

// GetPageContent retrieves the HTML content of a page.
// In browser mode the content is the rendered DOM once Config.WaitSelector is
// ready; otherwise it is the raw response body.
func (b *BaseAdapter) GetPageContent(ctx context.Context, url string) (string, error) {
	// Use headless browser when configured
	if b.browserClient != nil {
		return b.browserClient.GetPageContent(ctx, url)
	}

	// Fall back to plain HTTP
	body, err := b.httpClient.Get(ctx, url)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// ParseHTML parses HTML content into a goquery document
func (b *BaseAdapter) ParseHTML(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// ExtractText returns the text of the first element under s matching selector.
// Runs of whitespace, including the newlines the catalog markup wraps around
// availability text, are collapsed to single spaces.
func (b *BaseAdapter) ExtractText(s *goquery.Selection, selector string) (string, error) {
	element := s.Find(selector).First()
	if element.Length() == 0 {
		return "", fmt.Errorf("element not found with selector: %s", selector)
	}

	// Collapse whitespace
	return strings.Join(strings.Fields(element.Text()), " "), nil
}

// ExtractAttribute extracts an attribute value from the first element under s
// matching selector. A missing element and a missing attribute are both errors.
func (b *BaseAdapter) ExtractAttribute(s *goquery.Selection, selector string, attribute string) (string, error) {
	element := s.Find(selector).First()
	if element.Length() == 0 {
		return "", fmt.Errorf("element not found with selector: %s", selector)
	}

	value, exists := element.Attr(attribute)
	if !exists {
		return "", fmt.Errorf("attribute %s not found on element %s", attribute, selector)
	}

	return strings.TrimSpace(value), nil
}

// ResolveURL converts href into an absolute URL relative to base.
// A nil base leaves href untouched.
func (b *BaseAdapter) ResolveURL(base *url.URL, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("empty link")
	}

	// Parse the link and resolve it against the page it came from
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}
	if base == nil {
		return ref.String(), nil
	}
	return base.ResolveReference(ref).String(), nil
}

// Config returns the config field of the BaseAdapter
func (b *BaseAdapter) Config() *types.Config {
	return b.config
}

// Close cleans up resources
func (b *BaseAdapter) Close() {
	if b.httpClient != nil {
		b.httpClient.Close()
	}
	if b.browserClient != nil {
		b.browserClient.Close()
	}
}
