// Package repository holds the normalised prediction tables for a session.
package repository

import (
	"context"

	"github.com/okian/draftboard/internal/domain/table"
)

// Source names one of the two tables held side by side.
type Source string

// Known sources.
const (
	Historical Source = "historical"
	Current    Source = "current"
)

// Sources lists every source in a stable order.
var Sources = []Source{Historical, Current}

// Store provides read-only access to the normalised tables.
type Store interface {
	// Table returns the table for source.
	// Returns ErrNotFound if the source is unknown or was never loaded.
	Table(ctx context.Context, source Source) (table.Table, error)

	// Count returns the number of rows held for source, 0 if unknown.
	Count(ctx context.Context, source Source) int
}
