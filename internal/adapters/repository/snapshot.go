package repository

import (
	"context"
	"fmt"

	"github.com/okian/draftboard/internal/domain/table"
	"github.com/okian/draftboard/pkg/metrics"
)

// SnapshotStore is an immutable Store built once at startup.
// Tables are never replaced after construction, so reads need no locking.
type SnapshotStore struct {
	tables map[Source]table.Table
}

// NewSnapshotStore creates a store from the given tables.
func NewSnapshotStore(_ context.Context, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{tables: make(map[Source]table.Table, len(Sources))}
	for _, opt := range opts {
		opt(s)
	}
	for source, t := range s.tables {
		metrics.UpdateTableRows(string(source), t.Len())
	}
	return s
}

// Table returns the table registered for source.
func (s *SnapshotStore) Table(_ context.Context, source Source) (table.Table, error) {
	t, ok := s.tables[source]
	if !ok {
		return table.Table{}, fmt.Errorf("%w: %s", ErrNotFound, source)
	}
	return t, nil
}

// Count returns the number of rows held for source.
func (s *SnapshotStore) Count(_ context.Context, source Source) int {
	t, ok := s.tables[source]
	if !ok {
		return 0
	}
	return t.Len()
}
