// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// dashboardHandler handles dashboard requests
type dashboardHandler struct{}

// newDashboardHandler creates a new dashboard handler
func newDashboardHandler() *dashboardHandler {
	return &dashboardHandler{}
}

// HandleDashboard handles GET /dashboard requests
// Returns the prediction table page; it reads /options and /predictions.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	// Serve embedded dashboard page
	http.ServeFileFS(w, r, dashboardFS, "dashboard.html")
}
