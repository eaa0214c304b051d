// Package store defines the report-history persistence interface shared by
// the CLI, the dashboard, and the storage backends under this package.
package store

import (
	"context"
	"time"
)

// Kind distinguishes what produced a record.
type Kind string

const (
	// KindResearch marks a company research report.
	KindResearch Kind = "research"

	// KindAnswer marks a question-and-answer exchange.
	KindAnswer Kind = "answer"

	// KindAnalysis marks a dataset analysis run.
	KindAnalysis Kind = "analysis"
)

// Record is one persisted report or analysis result.
type Record struct {
	// ID is the record's UUID, assigned by the caller.
	ID string

	// Kind says what produced the record.
	Kind Kind

	// Query is the research query, question, or dataset path that
	// produced the content.
	Query string

	// Content is the generated report or analysis body.
	Content string

	// CreatedAt is when the record was persisted.
	CreatedAt time.Time
}

// Driver defines the interface for persisting and retrieving records in a
// storage backend.
type Driver interface {
	// Put stores a record. Storing an ID that already exists is an error.
	Put(ctx context.Context, record *Record) error

	// Get retrieves a record by its ID.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns records newest first, capped at limit when limit > 0.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Close closes the store and releases any resources.
	Close() error
}
