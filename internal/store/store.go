package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookscraper/internal/types"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"
)

// ErrEmptyBatch is returned when Save is called without books
var ErrEmptyBatch = errors.New("empty batch")

const insertChunkSize = 500

var _ types.Repository = (*BookStore)(nil)

// BookStore persists books with bun
type BookStore struct {
	db     *bun.DB
	logger types.Logger
}

// Open connects to dsn and makes sure the schema exists. postgres:// and
// postgresql:// DSNs use pgx, anything else is a SQLite file path.
func Open(ctx context.Context, dsn string, logger types.Logger) (*BookStore, error) {
	var (
		sqldb   *sql.DB
		dialect schema.Dialect
		err     error
	)

	if isPostgres(dsn) {
		sqldb, err = sql.Open("pgx", dsn)
		dialect = pgdialect.New()
	} else {
		sqldb, err = sql.Open(sqliteshim.ShimName, dsn)
		dialect = sqlitedialect.New()
		if err == nil {
			// one connection keeps :memory: databases alive and serialises writers
			sqldb.SetMaxOpenConns(1)
		}
	}
	if err != nil {
		return nil, &types.StorageError{Op: "open", Err: err}
	}

	store, err := New(ctx, sqldb, dialect, logger)
	if err != nil {
		sqldb.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an open database and creates the books table if it does not exist
func New(ctx context.Context, sqldb *sql.DB, dialect schema.Dialect, logger types.Logger) (*BookStore, error) {
	db := bun.NewDB(sqldb, dialect)

	if _, err := db.NewCreateTable().Model((*bookRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, &types.StorageError{Op: "create schema", Err: fmt.Errorf("failed to create books table: %w", err)}
	}

	return &BookStore{db: db, logger: logger}, nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Save upserts the batch by URL in a single transaction. Either every book is
// written or none is. The returned count is the number of distinct URLs written,
// which is lower than len(books) when the batch repeats a URL.
func (s *BookStore) Save(ctx context.Context, books []types.Book) (int, error) {
	if len(books) == 0 {
		return 0, &types.StorageError{Op: "save", Err: ErrEmptyBatch}
	}

	now := time.Now().UTC()
	rows := make([]bookRow, 0, len(books))
	seen := make(map[string]int, len(books))
	for i, book := range books {
		if err := validate(book); err != nil {
			return 0, &types.StorageError{Op: "save", Err: fmt.Errorf("book %d: %w", i+1, err)}
		}
		// a URL listed twice keeps its first position and its last values
		if idx, ok := seen[book.URL]; ok {
			rows[idx] = toRow(book, now)
			continue
		}
		seen[book.URL] = len(rows)
		rows = append(rows, toRow(book, now))
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for start := 0; start < len(rows); start += insertChunkSize {
			end := start + insertChunkSize
			if end > len(rows) {
				end = len(rows)
			}
			chunk := rows[start:end]
			_, err := tx.NewInsert().
				Model(&chunk).
				On("CONFLICT (url) DO UPDATE").
				Set("title = EXCLUDED.title").
				Set("price = EXCLUDED.price").
				Set("rating = EXCLUDED.rating").
				Set("in_stock = EXCLUDED.in_stock").
				Set("scraped_at = EXCLUDED.scraped_at").
				Exec(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, &types.StorageError{Op: "save", Err: err}
	}

	s.logger.Infof("Successfully saved %d books", len(rows))
	return len(rows), nil
}

// List returns stored books in insertion order. limit <= 0 returns all of them.
func (s *BookStore) List(ctx context.Context, limit int) ([]types.Book, error) {
	var rows []bookRow
	q := s.db.NewSelect().Model(&rows).Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, &types.StorageError{Op: "list", Err: err}
	}

	books := make([]types.Book, 0, len(rows))
	for _, row := range rows {
		book, err := fromRow(row)
		if err != nil {
			return nil, &types.StorageError{Op: "list", Err: err}
		}
		books = append(books, book)
	}
	return books, nil
}

// Count returns the number of stored books
func (s *BookStore) Count(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*bookRow)(nil)).Count(ctx)
	if err != nil {
		return 0, &types.StorageError{Op: "count", Err: err}
	}
	return n, nil
}

// Close closes the database
func (s *BookStore) Close() error {
	return s.db.Close()
}
