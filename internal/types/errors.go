package types

import (
	"errors"
	"fmt"
)

// ErrCatalogStructure is returned when a page loads but holds no catalog items
var ErrCatalogStructure = errors.New("catalog structure not found")

// FetchError reports a page that could not be loaded or rendered
type FetchError struct {
	URL  string
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d (%s): %v", e.Page, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a field that could not be extracted from an item.
// Position is 1-based within the page.
type ParseError struct {
	PageURL  string
	Position int
	Field    string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse item %d field %q on %s: %v", e.Position, e.Field, e.PageURL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError reports a schema or write failure
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Stage names the pipeline stage an error came from: fetch, parse, store or unknown.
func Stage(err error) string {
	var fetchErr *FetchError
	var parseErr *ParseError
	var storageErr *StorageError
	switch {
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &storageErr):
		return "store"
	default:
		return "unknown"
	}
}
