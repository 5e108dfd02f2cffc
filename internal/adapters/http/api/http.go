// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/draftboard/internal/app"
	"github.com/okian/draftboard/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Predictions runs one dashboard selection.
	Predictions(ctx context.Context, req service.Request) (service.Result, error)

	// Options lists the selectable weeks, positions and metrics.
	Options(ctx context.Context) service.Choices
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	optionsHandler     *OptionsHandler
	predictionsHandler *PredictionsHandler
	dashboardHandler   *dashboardHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.predictionsHandler.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		optionsHandler:     NewOptionsHandler(deps),
		predictionsHandler: NewPredictionsHandler(deps),
		dashboardHandler:   newDashboardHandler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/options", MetricsMiddleware(s.optionsHandler.HandleGetOptions, "options"))
	mux.Handle("/predictions", RequestIDMiddleware(
		MetricsMiddleware(s.predictionsHandler.HandlePredictions, "predictions")))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
