package adapters

import (
	"testing"

	"bookscraper/internal/catalogtest"
	"bookscraper/internal/types"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) *BooksAdapter {
	config := types.DefaultConfig()
	config.UseHeadlessBrowser = false
	config.RequestDelay = 0

	adapter := NewBooksAdapter(config, logrus.New())
	t.Cleanup(adapter.Close)
	return adapter
}

func TestParse_LightInTheAttic(t *testing.T) {
	adapter := newTestAdapter(t)
	page := types.Page{
		Number: 1,
		URL:    "http://books.toscrape.com/",
		HTML: catalogtest.PageHTML([]catalogtest.Item{{
			Title:        "A Light in the Attic",
			Slug:         "a-light-in-the-attic_1000",
			Price:        "£51.77",
			Rating:       "Three",
			Availability: "In stock",
		}}, "catalogue/", ""),
	}

	books, err := adapter.Parse(page)

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "A Light in the Attic", books[0].Title)
	assert.True(t, decimal.RequireFromString("51.77").Equal(books[0].Price))
	assert.Equal(t, 3, books[0].Rating)
	assert.True(t, books[0].InStock)
	assert.Equal(t, "http://books.toscrape.com/catalogue/a-light-in-the-attic_1000/index.html", books[0].URL)
}

func TestParse_FullPage(t *testing.T) {
	adapter := newTestAdapter(t)
	var items []catalogtest.Item
	for i := 1; i <= 20; i++ {
		items = append(items, catalogtest.GeneratedItem(i))
	}

	books, err := adapter.Parse(types.Page{Number: 1, URL: "http://books.toscrape.com/", HTML: catalogtest.PageHTML(items, "catalogue/", "catalogue/page-2.html")})

	require.NoError(t, err)
	require.Len(t, books, 20)
	for i, book := range books {
		assert.Equal(t, items[i].Title, book.Title, "order is preserved")
		assert.NotEmpty(t, book.Title)
		assert.False(t, book.Price.IsNegative())
		assert.GreaterOrEqual(t, book.Rating, 1)
		assert.LessOrEqual(t, book.Rating, 5)
	}
}

func TestParse_MissingField(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*catalogtest.Item)
		field string
	}{
		{"no price", func(i *catalogtest.Item) { i.Price = "" }, FieldPrice},
		{"bad price", func(i *catalogtest.Item) { i.Price = "free" }, FieldPrice},
		{"no title", func(i *catalogtest.Item) { i.Title = "" }, FieldTitle},
		{"no rating", func(i *catalogtest.Item) { i.Rating = "" }, FieldRating},
		{"bad rating", func(i *catalogtest.Item) { i.Rating = "Six" }, FieldRating},
		{"no availability", func(i *catalogtest.Item) { i.Availability = "" }, FieldAvailability},
		{"odd availability", func(i *catalogtest.Item) { i.Availability = "Maybe" }, FieldAvailability},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := newTestAdapter(t)
			items := []catalogtest.Item{catalogtest.GeneratedItem(1), catalogtest.GeneratedItem(2)}
			tt.edit(&items[1])

			books, err := adapter.Parse(types.Page{Number: 1, URL: "http://books.toscrape.com/", HTML: catalogtest.PageHTML(items, "catalogue/", "")})

			require.Error(t, err)
			assert.Nil(t, books, "no partial records")
			var parseErr *types.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.field, parseErr.Field)
			assert.Equal(t, 2, parseErr.Position)
		})
	}
}

func TestParse_EmptyPage(t *testing.T) {
	adapter := newTestAdapter(t)

	books, err := adapter.Parse(types.Page{Number: 1, URL: "http://books.toscrape.com/", HTML: catalogtest.PageHTML(nil, "", "")})

	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestNextPageURL(t *testing.T) {
	adapter := newTestAdapter(t)

	doc, err := adapter.ParseHTML(catalogtest.PageHTML(nil, "", "page-3.html"))
	require.NoError(t, err)
	next, err := adapter.NextPageURL(doc, "http://books.toscrape.com/catalogue/page-2.html")
	require.NoError(t, err)
	assert.Equal(t, "http://books.toscrape.com/catalogue/page-3.html", next)

	doc, err = adapter.ParseHTML(catalogtest.PageHTML(nil, "", ""))
	require.NoError(t, err)
	next, err = adapter.NextPageURL(doc, "http://books.toscrape.com/catalogue/page-50.html")
	require.NoError(t, err)
	assert.Empty(t, next)
}

func TestParsePrice(t *testing.T) {
	price, err := ParsePrice("Â£51.77")
	require.NoError(t, err)
	assert.Equal(t, "51.77", price.String())

	price, err = ParsePrice(" £0.00 ")
	require.NoError(t, err)
	assert.True(t, price.IsZero())

	_, err = ParsePrice("£-3.00")
	assert.Error(t, err)

	_, err = ParsePrice("£")
	assert.Error(t, err)
}

func TestParseRating(t *testing.T) {
	for word, want := range map[string]int{"One": 1, "Two": 2, "Three": 3, "Four": 4, "Five": 5} {
		got, err := ParseRating("star-rating " + word)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseRating("star-rating")
	assert.Error(t, err)
}

func TestParseAvailability(t *testing.T) {
	inStock, err := ParseAvailability("In stock (22 available)")
	require.NoError(t, err)
	assert.True(t, inStock)

	inStock, err = ParseAvailability("Out of stock")
	require.NoError(t, err)
	assert.False(t, inStock)
}
