package api

import (
	"errors"
	"net/http"

	"github.com/okian/orgpulse/internal/domain/drilldown"
	"github.com/okian/orgpulse/internal/domain/filter"
)

// DrilldownHandler handles drilldown requests.
type DrilldownHandler struct {
	deps DrilldownDependencies
}

// NewDrilldownHandler creates a new drilldown handler.
func NewDrilldownHandler(deps DrilldownDependencies) *DrilldownHandler {
	return &DrilldownHandler{deps: deps}
}

type targetResponse struct {
	Path  string              `json:"path"`
	Query map[string][]string `json:"query"`
	URL   string              `json:"url"`
}

// HandleGetDrilldown handles GET /drilldown?kind=&value= plus the filter
// parameters. Month values may be given as YYYY-MM.
func (h *DrilldownHandler) HandleGetDrilldown(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_drilldown"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	kind, err := drilldown.ParseKind(q.Get("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	value, err := drilldown.ParseValue(kind, q.Get("value"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	st, _ := filter.Parse(q)

	target, err := h.deps.Drill(r.Context(), drilldown.Event{Kind: kind, Value: value}, st)
	if err != nil {
		if errors.Is(err, drilldown.ErrNoTarget) {
			writeError(w, http.StatusUnprocessableEntity, "no_target", WrapKind(op, ErrNoTarget, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, targetResponse{Path: target.Path, Query: target.Query, URL: target.String()})
}
