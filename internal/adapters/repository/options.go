package repository

import "github.com/okian/draftboard/internal/domain/table"

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithTable registers the normalised table for source.
func WithTable(source Source, t table.Table) Option {
	return func(s *SnapshotStore) {
		s.tables[source] = t
	}
}
