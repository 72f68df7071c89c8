package store

import (
	"fmt"
	"time"

	"bookscraper/internal/types"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// bookRow is the books table. Price is kept as exact decimal text.
type bookRow struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID        int64     `bun:",pk,autoincrement"`
	URL       string    `bun:",unique,notnull"`
	Title     string    `bun:",notnull"`
	Price     string    `bun:",notnull"`
	Rating    int       `bun:",notnull"`
	InStock   bool      `bun:",notnull"`
	ScrapedAt time.Time `bun:",notnull"`
}

func toRow(book types.Book, scrapedAt time.Time) bookRow {
	return bookRow{
		URL:       book.URL,
		Title:     book.Title,
		Price:     book.Price.String(),
		Rating:    book.Rating,
		InStock:   book.InStock,
		ScrapedAt: scrapedAt,
	}
}

func fromRow(row bookRow) (types.Book, error) {
	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return types.Book{}, fmt.Errorf("row %d has malformed price %q: %w", row.ID, row.Price, err)
	}
	return types.Book{
		Title:   row.Title,
		Price:   price,
		Rating:  row.Rating,
		InStock: row.InStock,
		URL:     row.URL,
	}, nil
}

func validate(book types.Book) error {
	switch {
	case book.Title == "":
		return fmt.Errorf("empty title")
	case book.URL == "":
		return fmt.Errorf("book %q has no url", book.Title)
	case book.Price.IsNegative():
		return fmt.Errorf("book %q has negative price %s", book.Title, book.Price)
	case book.Rating < 1 || book.Rating > 5:
		return fmt.Errorf("book %q has rating %d outside 1-5", book.Title, book.Rating)
	}
	return nil
}
