package api

import (
	"context"
	"net/http"

	service "github.com/okian/draftboard/internal/app"
)

// OptionsDependencies defines the interface for listing selector choices.
type OptionsDependencies interface {
	Options(ctx context.Context) service.Choices
}

// OptionsHandler handles selector option requests.
type OptionsHandler struct {
	deps OptionsDependencies
}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler(deps OptionsDependencies) *OptionsHandler {
	return &OptionsHandler{deps: deps}
}

// HandleGetOptions handles GET /options requests.
func (h *OptionsHandler) HandleGetOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Options(r.Context()))
}
