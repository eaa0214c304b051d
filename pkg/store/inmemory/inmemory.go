// Package inmemory provides a map-backed store.Driver, used by tests and
// dashboard runs that don't configure a database path.
package inmemory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/hexlockco/alembic/pkg/store"
)

// Driver implements store.Driver using an in-memory map.
type Driver struct {
	mu sync.RWMutex

	// records is keyed by record ID
	records map[string]*store.Record
}

// NewDriver creates a new in-memory store.
func NewDriver() *Driver {
	return &Driver{
		records: make(map[string]*store.Record),
	}
}

// Put stores a record. Reusing an existing ID is an error.
func (s *Driver) Put(_ context.Context, record *store.Record) error {
	if record == nil {
		return errors.New("cannot store nil record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.ID]; ok {
		return errors.New("record already exists: " + record.ID)
	}

	clone := *record
	s.records[record.ID] = &clone
	return nil
}

// Get retrieves a record by its ID.
func (s *Driver) Get(_ context.Context, id string) (*store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, store.NotFoundError{ID: id}
	}

	clone := *record
	return &clone, nil
}

// List returns records newest first, capped at limit when limit > 0.
func (s *Driver) List(_ context.Context, limit int) ([]*store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*store.Record, 0, len(s.records))
	for _, record := range s.records {
		clone := *record
		records = append(records, &clone)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

// Close is a no-op for the in-memory store.
func (s *Driver) Close() error {
	return nil
}
