// Package sqlite provides a SQLite-backed store.Driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hexlockco/alembic/pkg/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	query      TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_created_at ON records (created_at DESC);
`

// Driver implements store.Driver on a SQLite database file.
type Driver struct {
	db *sql.DB
}

// NewDriver opens (or creates) the database at dbPath and ensures the
// schema exists. The dbPath can be a file path or ":memory:" for an
// in-memory database.
func NewDriver(dbPath string) (*Driver, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Driver{db: db}, nil
}

// Put stores a record. Reusing an existing ID is an error.
func (s *Driver) Put(ctx context.Context, record *store.Record) error {
	if record == nil {
		return errors.New("cannot store nil record")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO records (id, kind, query, content, created_at) VALUES (?, ?, ?, ?, ?)",
		record.ID, string(record.Kind), record.Query, record.Content, record.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

// Get retrieves a record by its ID.
func (s *Driver) Get(ctx context.Context, id string) (*store.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, kind, query, content, created_at FROM records WHERE id = ?", id)

	record, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	return record, nil
}

// List returns records newest first, capped at limit when limit > 0.
func (s *Driver) List(ctx context.Context, limit int) ([]*store.Record, error) {
	query := "SELECT id, kind, query, content, created_at FROM records ORDER BY created_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []*store.Record
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

// Close closes the underlying database.
func (s *Driver) Close() error {
	return s.db.Close()
}

func scanRecord(scan func(dest ...any) error) (*store.Record, error) {
	var (
		record    store.Record
		kind      string
		createdAt time.Time
	)

	if err := scan(&record.ID, &kind, &record.Query, &record.Content, &createdAt); err != nil {
		return nil, err
	}

	record.Kind = store.Kind(kind)
	record.CreatedAt = createdAt
	return &record, nil
}
