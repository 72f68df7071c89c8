package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"bookscraper/internal/types"

	"gopkg.in/yaml.v3"
)

// Formats lists the supported output formats
var Formats = []string{"json", "yaml", "csv"}

// Write encodes books to w in the given format
func Write(w io.Writer, format string, books []types.Book) error {
	if books == nil {
		books = []types.Book{}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(books)

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(books); err != nil {
			return err
		}
		return enc.Close()

	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"title", "price", "rating", "in_stock", "url"}); err != nil {
			return err
		}
		for _, b := range books {
			record := []string{b.Title, b.Price.StringFixed(2), strconv.Itoa(b.Rating), strconv.FormatBool(b.InStock), b.URL}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
