package adapters

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"bookscraper/internal/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// Selectors used on books.toscrape.com listing pages
const (
	ItemSelector         = ".product_pod"
	TitleSelector        = "h3 a"
	PriceSelector        = ".price_color"
	AvailabilitySelector = ".availability"
	RatingSelector       = ".star-rating"
	NextPageSelector     = "li.next a"
)

// Field names reported in ParseError
const (
	FieldTitle        = "title"
	FieldURL          = "url"
	FieldPrice        = "price"
	FieldAvailability = "availability"
	FieldRating       = "rating"
)

var ratingWords = map[string]int{
	"one":   1,
	"two":   2,
	"three": 3,
	"four":  4,
	"five":  5,
}

var _ types.Parser = (*BooksAdapter)(nil)

// BooksAdapter handles books.toscrape.com catalog pages
type BooksAdapter struct {
	*BaseAdapter
}

// NewBooksAdapter creates a new books.toscrape.com adapter
func NewBooksAdapter(config *types.Config, logger types.Logger) *BooksAdapter {
	return &BooksAdapter{
		BaseAdapter: NewBaseAdapter(config, logger),
	}
}

// GetStoreName returns the site name
func (a *BooksAdapter) GetStoreName() string {
	return "books.toscrape.com"
}

// fieldError is an extraction failure for a single field of an item
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string { return e.field + ": " + e.err.Error() }

// Parse extracts every book on the page in document order. The first item with a
// missing or malformed field fails the whole page.
func (a *BooksAdapter) Parse(page types.Page) ([]types.Book, error) {
	doc, err := a.ParseHTML(page.HTML)
	if err != nil {
		return nil, &types.ParseError{PageURL: page.URL, Field: "document", Err: err}
	}

	var base *url.URL
	if page.URL != "" {
		base, err = url.Parse(page.URL)
		if err != nil {
			return nil, &types.ParseError{PageURL: page.URL, Field: "document", Err: err}
		}
	}

	items := doc.Find(ItemSelector)
	books := make([]types.Book, 0, items.Length())
	var parseErr error

	items.EachWithBreak(func(i int, s *goquery.Selection) bool {
		book, err := a.parseItem(s, base)
		if err != nil {
			var fe *fieldError
			pe := &types.ParseError{PageURL: page.URL, Position: i + 1, Err: err}
			if errors.As(err, &fe) {
				pe.Field = fe.field
				pe.Err = fe.err
			}
			parseErr = pe
			return false
		}
		books = append(books, book)
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}

	a.logger.Debugf("Parsed %d books from page %d", len(books), page.Number)
	return books, nil
}

func (a *BooksAdapter) parseItem(s *goquery.Selection, base *url.URL) (types.Book, error) {
	var book types.Book

	title, err := a.ExtractAttribute(s, TitleSelector, "title")
	if err != nil {
		return book, &fieldError{FieldTitle, err}
	}
	if title == "" {
		return book, &fieldError{FieldTitle, fmt.Errorf("empty title")}
	}
	book.Title = title

	href, err := a.ExtractAttribute(s, TitleSelector, "href")
	if err != nil {
		return book, &fieldError{FieldURL, err}
	}
	book.URL, err = a.ResolveURL(base, href)
	if err != nil {
		return book, &fieldError{FieldURL, err}
	}

	priceText, err := a.ExtractText(s, PriceSelector)
	if err != nil {
		return book, &fieldError{FieldPrice, err}
	}
	book.Price, err = ParsePrice(priceText)
	if err != nil {
		return book, &fieldError{FieldPrice, err}
	}

	availText, err := a.ExtractText(s, AvailabilitySelector)
	if err != nil {
		return book, &fieldError{FieldAvailability, err}
	}
	book.InStock, err = ParseAvailability(availText)
	if err != nil {
		return book, &fieldError{FieldAvailability, err}
	}

	class, err := a.ExtractAttribute(s, RatingSelector, "class")
	if err != nil {
		return book, &fieldError{FieldRating, err}
	}
	book.Rating, err = ParseRating(class)
	if err != nil {
		return book, &fieldError{FieldRating, err}
	}

	return book, nil
}

// NextPageURL returns the absolute URL of the next catalog page, or "" on the last page
func (a *BooksAdapter) NextPageURL(doc *goquery.Document, pageURL string) (string, error) {
	next := doc.Find(NextPageSelector).First()
	if next.Length() == 0 {
		return "", nil
	}

	href, exists := next.Attr("href")
	if !exists {
		return "", fmt.Errorf("next page link has no href")
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}
	return a.ResolveURL(base, href)
}

// ParsePrice reads an amount such as "£51.77", dropping any currency symbol
func ParsePrice(text string) (decimal.Decimal, error) {
	amount := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '.' || r == '-' {
			return r
		}
		return -1
	}, text)
	if amount == "" {
		return decimal.Zero, fmt.Errorf("no amount in %q", text)
	}

	price, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed amount %q: %w", text, err)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %q", text)
	}
	return price, nil
}

// ParseRating maps a "star-rating Three" class list to 3
func ParseRating(class string) (int, error) {
	for _, word := range strings.Fields(class) {
		if rating, ok := ratingWords[strings.ToLower(word)]; ok {
			return rating, nil
		}
	}
	return 0, fmt.Errorf("no rating word in class %q", class)
}

// ParseAvailability reports whether the availability text means the book is in stock
func ParseAvailability(text string) (bool, error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(lower, "in stock"):
		return true, nil
	case strings.HasPrefix(lower, "out of stock"):
		return false, nil
	case lower == "":
		return false, fmt.Errorf("empty availability")
	default:
		return false, fmt.Errorf("unrecognised availability %q", text)
	}
}
