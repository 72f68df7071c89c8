package extractor

import (
	"bookscraper/adapters"
	"bookscraper/internal/types"
)

// BooksExtractor owns the books.toscrape.com adapter and the fetcher built on it
type BooksExtractor struct {
	adapter *adapters.BooksAdapter
	fetcher *CatalogFetcher
	logger  types.Logger
}

// NewBooksExtractor creates a new books.toscrape.com extractor
func NewBooksExtractor(config *types.Config, logger types.Logger) *BooksExtractor {
	adapter := adapters.NewBooksAdapter(config, logger)
	return &BooksExtractor{
		adapter: adapter,
		fetcher: NewCatalogFetcher(adapter, logger),
		logger:  logger,
	}
}

// Adapter returns the page adapter, which is also the Parser
func (e *BooksExtractor) Adapter() *adapters.BooksAdapter {
	return e.adapter
}

// Fetcher returns the catalog fetcher
func (e *BooksExtractor) Fetcher() *CatalogFetcher {
	return e.fetcher
}

// Pipeline builds a pipeline that stores into repo
func (e *BooksExtractor) Pipeline(repo types.Repository) *Pipeline {
	return NewPipeline(e.fetcher, e.adapter, repo, e.logger)
}

// Close cleans up resources
func (e *BooksExtractor) Close() {
	if e.adapter != nil {
		e.adapter.Close()
	}
}
