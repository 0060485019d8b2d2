package api

import (
	"net/http"

	"github.com/okian/orgpulse/internal/domain/filter"
)

// DashboardHandler handles dashboard requests.
type DashboardHandler struct {
	deps DashboardDependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps DashboardDependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleGetDashboard handles GET /dashboard?period=&sector=&competency=.
// Malformed filter values are ignored and leave that axis at its default.
func (h *DashboardHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	st, _ := filter.Parse(r.URL.Query())
	writeJSON(w, http.StatusOK, h.deps.Dashboard(r.Context(), st))
}
