package types

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Book is one catalog item as scraped from a listing page
type Book struct {
	Title   string          `json:"title" yaml:"title"`
	Price   decimal.Decimal `json:"price" yaml:"price"`
	Rating  int             `json:"rating" yaml:"rating"`
	InStock bool            `json:"in_stock" yaml:"in_stock"`
	URL     string          `json:"url" yaml:"url"`
}

// Page is the rendered content of one catalog page
type Page struct {
	Number int
	URL    string
	HTML   string
}

// RunSummary describes a finished scrape pass
type RunSummary struct {
	Pages    int           `json:"pages"`
	Books    int           `json:"books"`
	Stored   int           `json:"stored"`
	Duration time.Duration `json:"duration"`
}

// Config holds the configuration for the scraper
type Config struct {
	BaseURL            string        `mapstructure:"base_url"`
	DatabaseDSN        string        `mapstructure:"db"`
	MaxPages           int           `mapstructure:"max_pages"`
	Timeout            time.Duration `mapstructure:"timeout"`
	RunTimeout         time.Duration `mapstructure:"run_timeout"`
	RequestDelay       time.Duration `mapstructure:"delay"`
	UseHeadlessBrowser bool          `mapstructure:"use_browser"`
	WaitSelector       string        `mapstructure:"wait_selector"`
	UserAgent          string        `mapstructure:"user_agent"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "http://books.toscrape.com/",
		DatabaseDSN:        "books.db",
		MaxPages:           0,
		Timeout:            30 * time.Second,
		RunTimeout:         10 * time.Minute,
		RequestDelay:       500 * time.Millisecond,
		UseHeadlessBrowser: true,
		WaitSelector:       ".product_pod",
		UserAgent:          "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// Fetcher walks a paginated catalog and hands each rendered page to fn in order.
// Returning an error from fn stops the walk.
type Fetcher interface {
	Pages(ctx context.Context, startURL string, fn func(Page) error) error
}

// Parser turns one catalog page into its books, in page order
type Parser interface {
	Parse(page Page) ([]Book, error)
}

// Repository persists a batch of books and reports how many distinct rows it wrote
type Repository interface {
	Save(ctx context.Context, books []Book) (int, error)
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
