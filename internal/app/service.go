// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	repository "github.com/okian/draftboard/internal/adapters/repository"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/normalize"
	"github.com/okian/draftboard/internal/domain/query"
	"github.com/okian/draftboard/internal/domain/selection"
	"github.com/okian/draftboard/internal/domain/table"
	"github.com/okian/draftboard/pkg/logger"
	"github.com/okian/draftboard/pkg/metrics"
)

// Request is a dashboard selection as received from a client.
type Request struct {
	// Week is a selector label such as "2020 Week 5". Empty selects the
	// current week.
	Week string

	// Position restricts rows to one position. Empty means all.
	Position string

	Filters       []model.Filter
	Models        []string
	IncludeActual bool
}

// Result is the projected table for a Request.
type Result struct {
	Week   string
	Source repository.Source
	Table  table.Table
}

// Choices lists what a client can select.
type Choices struct {
	Weeks         []string `json:"weeks"`
	CurrentWeek   string   `json:"currentWeek"`
	Positions     []string `json:"positions"`
	Metrics       []string `json:"metrics"`
	DefaultModels []string `json:"defaultModels"`
}

// rawTables are tables injected instead of read from disk.
type rawTables struct {
	historical table.Table
	current    table.Table
}

// Service holds the loaded tables and answers prediction queries.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	catalog *selection.Catalog

	// Configuration
	historicalPath string
	currentPath    string
	raw            *rawTables
	backfillActual bool
	maxFilters     int

	// State
	started bool
	reports map[repository.Source]normalize.Report
	queries atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHistoricalPath sets the CSV file read for the historical table.
func WithHistoricalPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.historicalPath = path
		}
	}
}

// WithCurrentPath sets the CSV file read for the current table.
func WithCurrentPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.currentPath = path
		}
	}
}

// WithRawTables supplies both raw tables directly; no files are read.
func WithRawTables(historical, current table.Table) Option {
	return func(s *Service) {
		s.raw = &rawTables{historical: historical, current: current}
	}
}

// WithActualBackfill controls whether the current table gets a zero actual
// column when it has none.
func WithActualBackfill(enabled bool) Option {
	return func(s *Service) {
		s.backfillActual = enabled
	}
}

// WithCatalog sets the week selector catalog.
func WithCatalog(c *selection.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithMaxFilters caps the column filters per request. Zero disables the cap.
func WithMaxFilters(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxFilters = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		historicalPath: "full_fantasy_predictions_2020",
		currentPath:    "full_fantasy_predictions_2024_with_week_17",
		backfillActual: true,
		maxFilters:     16,
		logger:         nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.catalog == nil {
		s.catalog = selection.NewCatalog()
	}
	return s
}

// Start loads and normalises both tables. Calling Start again is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting prediction service...")

	historical, current, err := s.loadRaw(ctx)
	if err != nil {
		return err
	}

	reports := make(map[repository.Source]normalize.Report, len(repository.Sources))
	hist, report, err := s.normalize(ctx, repository.Historical, historical, false)
	if err != nil {
		return err
	}
	reports[repository.Historical] = report

	var curOpts []normalize.Option
	if s.backfillActual {
		curOpts = append(curOpts, normalize.WithActualBackfill())
	}
	cur, report, err := s.normalize(ctx, repository.Current, current, true, curOpts...)
	if err != nil {
		return err
	}
	reports[repository.Current] = report

	s.store = repository.NewSnapshotStore(ctx,
		repository.WithTable(repository.Historical, hist),
		repository.WithTable(repository.Current, cur),
	)
	s.reports = reports
	metrics.MarkTablesLoaded(time.Now())

	s.started = true
	s.logger.Info(ctx, "prediction service started",
		logger.Int("historicalRows", hist.Len()),
		logger.Int("currentRows", cur.Len()),
		logger.Int("weeks", len(s.catalog.Weeks())),
	)

	return nil
}

func (s *Service) loadRaw(ctx context.Context) (table.Table, table.Table, error) {
	if s.raw != nil {
		return s.raw.historical, s.raw.current, nil
	}
	historical, err := repository.LoadFile(ctx, s.historicalPath)
	if err != nil {
		return table.Table{}, table.Table{}, fmt.Errorf("load historical table: %w", err)
	}
	current, err := repository.LoadFile(ctx, s.currentPath)
	if err != nil {
		return table.Table{}, table.Table{}, fmt.Errorf("load current table: %w", err)
	}
	return historical, current, nil
}

func (s *Service) normalize(ctx context.Context, source repository.Source, raw table.Table, isCurrent bool, opts ...normalize.Option) (table.Table, normalize.Report, error) {
	start := time.Now()
	t, report, err := normalize.Normalize(raw, isCurrent, opts...)
	if err != nil {
		return table.Table{}, normalize.Report{}, fmt.Errorf("normalize %s table: %w", source, err)
	}
	metrics.RecordNormalizeLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdatePositionAnomalies(string(source), report.UndefinedPositions, report.MultiplePositions)
	if report.BackfilledActual {
		metrics.RecordActualBackfill()
	}

	fields := []logger.Field{
		logger.String("source", string(source)),
		logger.Int("rows", report.Rows),
		logger.Int("undefinedPositions", report.UndefinedPositions),
		logger.Int("multiplePositions", report.MultiplePositions),
		logger.Bool("backfilledActual", report.BackfilledActual),
	}
	if report.UndefinedPositions > 0 || report.MultiplePositions > 0 {
		s.logger.Warn(ctx, "position indicators inconsistent", fields...)
	} else {
		s.logger.Info(ctx, "table normalized", fields...)
	}
	return t, report, nil
}

// Stop releases the loaded tables.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.store = nil
	s.reports = nil
	s.started = false
	s.logger.Info(context.Background(), "prediction service stopped")
}

// Predictions runs req against the table its week selects.
func (s *Service) Predictions(ctx context.Context, req Request) (Result, error) {
	start := time.Now()

	s.mu.RLock()
	store, started := s.store, s.started
	s.mu.RUnlock()
	if !started {
		return Result{}, ErrNotStarted
	}

	choice, err := s.catalog.Resolve(req.Week)
	if err != nil {
		return Result{}, s.reject(ctx, "week", err)
	}
	label := req.Week
	if label == "" {
		label = s.catalog.CurrentLabel()
	}

	criteria := query.Criteria{
		Week:          choice.Week,
		Filters:       req.Filters,
		Models:        req.Models,
		IncludeActual: req.IncludeActual,
	}
	if req.Position != "" {
		p, err := model.ParsePosition(req.Position)
		if err != nil {
			return Result{}, s.reject(ctx, "position", err)
		}
		criteria.Position = &p
	}
	if s.maxFilters > 0 && len(req.Filters) > s.maxFilters {
		return Result{}, s.reject(ctx, "filters",
			fmt.Errorf("%w: %d > %d", ErrTooManyFilters, len(req.Filters), s.maxFilters))
	}

	source := repository.Historical
	if choice.Current {
		source = repository.Current
	}
	t, err := store.Table(ctx, source)
	if err != nil {
		metrics.RecordQueryError("store")
		return Result{}, err
	}

	out, err := query.Run(t, criteria)
	if err != nil {
		if errors.Is(err, query.ErrEvaluation) {
			metrics.RecordQueryError("evaluation")
			s.logger.Error(ctx, "query evaluation failed", logger.Error(err))
			return Result{}, err
		}
		return Result{}, s.reject(ctx, errorKind(err), err)
	}

	s.queries.Add(1)
	metrics.RecordQuery(string(source), out.Len(), len(req.Filters))
	metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds()))
	s.logger.Debug(ctx, "query served",
		logger.String("week", label),
		logger.String("position", req.Position),
		logger.Int("filters", len(req.Filters)),
		logger.Int("rows", out.Len()),
	)

	return Result{Week: label, Source: source, Table: out}, nil
}

// reject records a caller error and wraps it as ErrInvalidRequest.
func (s *Service) reject(ctx context.Context, kind string, err error) error {
	metrics.RecordQueryError(kind)
	s.logger.Warn(ctx, "query rejected", logger.String("kind", kind), logger.Error(err))
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, query.ErrUnknownColumn):
		return "unknown_column"
	case errors.Is(err, query.ErrUnknownMetric):
		return "unknown_metric"
	case errors.Is(err, model.ErrUnsupportedComparator):
		return "comparator"
	case errors.Is(err, model.ErrInvalidValue):
		return "value"
	default:
		return "query"
	}
}

// Options lists the selectable weeks, positions and metrics.
func (s *Service) Options(_ context.Context) Choices {
	positions := s.catalog.Positions()
	names := make([]string, len(positions))
	for i, p := range positions {
		names[i] = p.String()
	}
	return Choices{
		Weeks:         s.catalog.Weeks(),
		CurrentWeek:   s.catalog.CurrentLabel(),
		Positions:     names,
		Metrics:       s.catalog.Metrics(),
		DefaultModels: s.catalog.DefaultModels(),
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"maxFilters":    s.maxFilters,
		"queriesServed": s.queries.Load(),
	}

	if s.started {
		for _, source := range repository.Sources {
			rows := s.store.Count(ctx, source)
			report := s.reports[source]
			stats[string(source)+"Rows"] = rows
			stats[string(source)+"UndefinedPositions"] = report.UndefinedPositions
			stats[string(source)+"MultiplePositions"] = report.MultiplePositions

			// Update metrics
			metrics.UpdateTableRows(string(source), rows)
		}
	}

	return stats
}
