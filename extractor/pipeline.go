package extractor

import (
	"context"
	"time"

	"bookscraper/internal/types"
)

// Pipeline runs one fetch, parse and store pass
type Pipeline struct {
	fetcher types.Fetcher
	parser  types.Parser
	repo    types.Repository
	logger  types.Logger
}

// NewPipeline wires the three stages together
func NewPipeline(fetcher types.Fetcher, parser types.Parser, repo types.Repository, logger types.Logger) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		parser:  parser,
		repo:    repo,
		logger:  logger,
	}
}

// Run scrapes every catalog page starting at startURL and stores all books in one
// batch. Nothing is written unless every page was fetched and parsed.
func (p *Pipeline) Run(ctx context.Context, startURL string) (*types.RunSummary, error) {
	startTime := time.Now()
	p.logger.Infof("Starting scrape on %s", startURL)

	summary := &types.RunSummary{}
	var books []types.Book

	err := p.fetcher.Pages(ctx, startURL, func(page types.Page) error {
		parsed, err := p.parser.Parse(page)
		if err != nil {
			return err
		}
		summary.Pages++
		books = append(books, parsed...)
		p.logger.Infof("Page %d: %d books (total so far: %d)", page.Number, len(parsed), len(books))
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary.Books = len(books)
	if len(books) == 0 {
		p.logger.Warn("No books found, nothing to store")
		summary.Duration = time.Since(startTime)
		return summary, nil
	}

	stored, err := p.repo.Save(ctx, books)
	if err != nil {
		return nil, err
	}
	summary.Stored = stored
	summary.Duration = time.Since(startTime)

	p.logger.Infof("Scrape completed in %v: %d pages, %d books stored", summary.Duration, summary.Pages, summary.Stored)
	return summary, nil
}
