package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/okian/draftboard/internal/domain/table"
	"github.com/okian/draftboard/pkg/metrics"
)

// LoadFile reads a CSV prediction file into a raw table.
func LoadFile(_ context.Context, path string) (table.Table, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return table.Table{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer func() { _ = f.Close() }()

	t, err := table.ReadCSV(f)
	if err != nil {
		return table.Table{}, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	metrics.RecordTableLoadLatency(float64(time.Since(start).Milliseconds()))
	return t, nil
}
