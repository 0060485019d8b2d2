package api

import (
	"errors"
	"net/http"

	service "github.com/okian/orgpulse/internal/app"
)

// RefreshHandler handles reload requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandlePostRefresh handles POST /refresh by loading and publishing a new
// snapshot. It answers with the published snapshot's meta.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	meta, err := h.deps.Refresh(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoLoader) {
			writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
			return
		}
		writeError(w, http.StatusBadGateway, "load_failed", WrapKind(op, ErrUpstream, err))
		return
	}
	writeJSON(w, http.StatusOK, meta)
}
