package extractor

import (
	"context"
	"fmt"
	"time"

	"bookscraper/adapters"
	"bookscraper/internal/types"
)

var _ types.Fetcher = (*CatalogFetcher)(nil)

// CatalogFetcher walks the catalog by following "next" links
type CatalogFetcher struct {
	adapter *adapters.BooksAdapter
	logger  types.Logger
}

// NewCatalogFetcher creates a fetcher that loads pages through adapter
func NewCatalogFetcher(adapter *adapters.BooksAdapter, logger types.Logger) *CatalogFetcher {
	return &CatalogFetcher{
		adapter: adapter,
		logger:  logger,
	}
}

// Pages loads startURL and every following page, in order, until there is no next
// link or Config.MaxPages pages were produced. The first failure ends the walk,
// and a next link back to a page already visited is a structure error.
func (f *CatalogFetcher) Pages(ctx context.Context, startURL string, fn func(types.Page) error) error {
	config := f.adapter.Config()
	pageURL := startURL
	visited := make(map[string]int)

	for number := 1; pageURL != ""; number++ {
		if config.MaxPages > 0 && number > config.MaxPages {
			f.logger.Debugf("Reached page limit of %d", config.MaxPages)
			return nil
		}
		if first, ok := visited[pageURL]; ok {
			return &types.FetchError{URL: pageURL, Page: number, Err: fmt.Errorf("%w: next link loops back to page %d", types.ErrCatalogStructure, first)}
		}
		visited[pageURL] = number

		pageStartTime := time.Now()
		f.logger.Debugf("Fetching page %d: %s", number, pageURL)

		html, err := f.adapter.GetPageContent(ctx, pageURL)
		if err != nil {
			return &types.FetchError{URL: pageURL, Page: number, Err: err}
		}

		doc, err := f.adapter.ParseHTML(html)
		if err != nil {
			return &types.FetchError{URL: pageURL, Page: number, Err: fmt.Errorf("failed to parse page: %w", err)}
		}
		if doc.Find(config.WaitSelector).Length() == 0 {
			return &types.FetchError{URL: pageURL, Page: number, Err: fmt.Errorf("%w: no %s elements", types.ErrCatalogStructure, config.WaitSelector)}
		}

		next, err := f.adapter.NextPageURL(doc, pageURL)
		if err != nil {
			return &types.FetchError{URL: pageURL, Page: number, Err: err}
		}

		f.logger.Debugf("Page %d fetched in %v", number, time.Since(pageStartTime))

		if err := fn(types.Page{Number: number, URL: pageURL, HTML: html}); err != nil {
			return err
		}
		pageURL = next
	}

	return nil
}
