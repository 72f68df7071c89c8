// Package catalogtest serves fake books.toscrape.com catalog pages for tests.
package catalogtest

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
)

// Item is one product_pod on a listing page. Empty fields are left out of the markup.
type Item struct {
	Title        string
	Slug         string
	Price        string
	Rating       string
	Availability string
}

var ratingNames = []string{"One", "Two", "Three", "Four", "Five"}

// GeneratedItem returns a well-formed item whose fields derive from n
func GeneratedItem(n int) Item {
	return Item{
		Title:        fmt.Sprintf("Book %03d", n),
		Slug:         fmt.Sprintf("book-%03d_%d", n, 1000-n),
		Price:        fmt.Sprintf("£%d.%02d", 10+n%40, n%100),
		Rating:       ratingNames[n%5],
		Availability: "In stock",
	}
}

// PageHTML renders a listing page. linkPrefix is prepended to item slugs and next is
// the raw href of the "next" link, omitted when empty.
func PageHTML(items []Item, linkPrefix, next string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en-us\"><head><title>All products | Books to Scrape</title></head><body>\n")
	b.WriteString("<section><ol class=\"row\">\n")
	for _, item := range items {
		b.WriteString("<li class=\"col-xs-6\"><article class=\"product_pod\">\n")
		if item.Rating != "" {
			fmt.Fprintf(&b, "  <p class=\"star-rating %s\"><i class=\"icon-star\"></i></p>\n", item.Rating)
		}
		href := linkPrefix + item.Slug + "/index.html"
		if item.Title != "" {
			short := item.Title
			if len(short) > 12 {
				short = short[:12] + "..."
			}
			fmt.Fprintf(&b, "  <h3><a href=\"%s\" title=\"%s\">%s</a></h3>\n", href, html.EscapeString(item.Title), html.EscapeString(short))
		}
		b.WriteString("  <div class=\"product_price\">\n")
		if item.Price != "" {
			fmt.Fprintf(&b, "    <p class=\"price_color\">%s</p>\n", item.Price)
		}
		if item.Availability != "" {
			fmt.Fprintf(&b, "    <p class=\"instock availability\">\n      <i class=\"icon-ok\"></i>\n      %s\n    </p>\n", item.Availability)
		}
		b.WriteString("  </div>\n</article></li>\n")
	}
	b.WriteString("</ol>\n")
	if next != "" {
		fmt.Fprintf(&b, "<ul class=\"pager\"><li class=\"next\"><a href=\"%s\">next</a></li></ul>\n", next)
	}
	b.WriteString("</section></body></html>\n")
	return b.String()
}

// Catalog is a running fake catalog site
type Catalog struct {
	*httptest.Server
	Pages   int
	PerPage int

	requests atomic.Int64
}

// NewCatalog starts a site with the given number of pages and items per page.
// Page 1 lives at "/" and page n at "/catalogue/page-n.html", as on the real site.
func NewCatalog(pages, perPage int) *Catalog {
	c := &Catalog{Pages: pages, PerPage: perPage}
	c.Server = httptest.NewServer(http.HandlerFunc(c.serve))
	return c
}

// Requests returns how many page requests the site has served
func (c *Catalog) Requests() int {
	return int(c.requests.Load())
}

func (c *Catalog) serve(w http.ResponseWriter, r *http.Request) {
	c.requests.Add(1)

	number := 0
	prefix := ""
	switch {
	case r.URL.Path == "/" || r.URL.Path == "/index.html":
		number = 1
		prefix = "catalogue/"
	case strings.HasPrefix(r.URL.Path, "/catalogue/page-") && strings.HasSuffix(r.URL.Path, ".html"):
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/catalogue/page-"), ".html"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		number = n
	}
	if number < 1 || number > c.Pages {
		http.NotFound(w, r)
		return
	}

	items := make([]Item, 0, c.PerPage)
	for i := 0; i < c.PerPage; i++ {
		items = append(items, GeneratedItem((number-1)*c.PerPage+i+1))
	}

	next := ""
	if number < c.Pages {
		next = fmt.Sprintf("%spage-%d.html", prefix, number+1)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, PageHTML(items, prefix, next))
}
