package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	service "github.com/okian/draftboard/internal/app"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/table"
	"github.com/okian/draftboard/pkg/logger"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

// PredictionsDependencies defines the interface for running selections.
type PredictionsDependencies interface {
	Predictions(ctx context.Context, req service.Request) (service.Result, error)
	Options(ctx context.Context) service.Choices
}

// PredictionsHandler handles prediction table requests.
type PredictionsHandler struct {
	deps   PredictionsDependencies
	logger logger.Logger
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(deps PredictionsDependencies) *PredictionsHandler {
	return &PredictionsHandler{deps: deps}
}

// predictionsRequest mirrors the OpenAPI schema for POST /predictions.
// A nil Models selects the default models; an empty list selects none.
type predictionsRequest struct {
	Week     string         `json:"week"`
	Position string         `json:"position"`
	Models   []string       `json:"models"`
	Actual   bool           `json:"actual"`
	Filters  []model.Filter `json:"filters"`
	Sort     string         `json:"sort"`
	Desc     bool           `json:"desc"`
	Format   string         `json:"format"`
}

func (p predictionsRequest) validate() error {
	switch p.Format {
	case "", formatJSON, formatCSV:
	default:
		return fmt.Errorf("unsupported format %q", p.Format)
	}
	return nil
}

func (p predictionsRequest) serviceRequest(defaults []string) service.Request {
	models := p.Models
	if models == nil {
		models = defaults
	}
	return service.Request{
		Week:          p.Week,
		Position:      p.Position,
		Filters:       p.Filters,
		Models:        models,
		IncludeActual: p.Actual,
	}
}

// predictionRow is one displayed row keyed by player name.
type predictionRow struct {
	Name   any            `json:"name"`
	Values map[string]any `json:"values"`
}

type predictionsResponse struct {
	Week    string          `json:"week"`
	Columns []string        `json:"columns"`
	Rows    []predictionRow `json:"rows"`
}

// HandlePredictions handles GET and POST /predictions requests.
func (h *PredictionsHandler) HandlePredictions(w http.ResponseWriter, r *http.Request) {
	const op = "api.predictions"

	var (
		req predictionsRequest
		err error
	)
	switch r.Method {
	case http.MethodGet:
		req, err = parseQuery(r.URL.Query())
	case http.MethodPost:
		err = json.NewDecoder(r.Body).Decode(&req)
	default:
		http.NotFound(w, r)
		return
	}
	if err == nil {
		err = req.validate()
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ctx := r.Context()
	res, err := h.deps.Predictions(ctx, req.serviceRequest(h.deps.Options(ctx).DefaultModels))
	if err != nil {
		h.fail(ctx, w, op, err)
		return
	}

	out := res.Table
	if req.Sort != "" {
		if out, err = out.Sorted(req.Sort, req.Desc); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	}

	if req.Format == formatCSV {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := out.WriteCSV(w); err != nil {
			h.log(ctx, "write csv failed", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, display(res.Week, out))
}

func (h *PredictionsHandler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_started", WrapKind(op, ErrUnavailable, err))
	default:
		h.log(ctx, "predictions failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}

func (h *PredictionsHandler) log(ctx context.Context, msg string, err error) {
	if h.logger == nil {
		return
	}
	h.logger.Error(ctx, msg, logger.String("requestId", RequestID(ctx)), logger.Error(err))
}

// display promotes Name to the row key and leaves the remaining projected
// columns as values.
func display(week string, t table.Table) predictionsResponse {
	cols := make([]string, 0, len(t.Names()))
	for _, c := range t.Names() {
		if c != model.ColumnName {
			cols = append(cols, c)
		}
	}
	maps := t.Maps()
	rows := make([]predictionRow, len(maps))
	for i, m := range maps {
		name := m[model.ColumnName]
		delete(m, model.ColumnName)
		for k, v := range m {
			if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				m[k] = nil
			}
		}
		rows[i] = predictionRow{Name: name, Values: m}
	}
	return predictionsResponse{Week: week, Columns: cols, Rows: rows}
}

func parseQuery(q url.Values) (predictionsRequest, error) {
	req := predictionsRequest{
		Week:     q.Get("week"),
		Position: q.Get("position"),
		Sort:     q.Get("sort"),
		Format:   q.Get("format"),
	}
	if models, ok := q["model"]; ok {
		req.Models = make([]string, 0, len(models))
		for _, m := range models {
			if m != "" {
				req.Models = append(req.Models, m)
			}
		}
	}
	var err error
	if req.Actual, err = parseBool(q, "actual"); err != nil {
		return predictionsRequest{}, err
	}
	if req.Desc, err = parseBool(q, "desc"); err != nil {
		return predictionsRequest{}, err
	}
	return req, nil
}

func parseBool(q url.Values, key string) (bool, error) {
	v := q.Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, v)
	}
	return b, nil
}
