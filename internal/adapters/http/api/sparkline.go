package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	service "github.com/okian/orgpulse/internal/app"
	"github.com/okian/orgpulse/internal/domain/filter"
)

// SparklineHandler handles sparkline hit-test requests.
type SparklineHandler struct {
	deps SparklineDependencies
}

// NewSparklineHandler creates a new sparkline handler.
func NewSparklineHandler(deps SparklineDependencies) *SparklineHandler {
	return &SparklineHandler{deps: deps}
}

// HandleGetHit handles GET /sparkline/hit?x=&width=&pad= plus the filter
// parameters. pad defaults to 0.
func (h *SparklineHandler) HandleGetHit(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_sparkline_hit"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	x, err := floatParam(q, "x", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	width, err := floatParam(q, "width", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	pad, err := floatParam(q, "pad", true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	st, _ := filter.Parse(q)

	hit, err := h.deps.HitTest(r.Context(), st, x, width, pad)
	if err != nil {
		if errors.Is(err, service.ErrNoPoint) {
			writeError(w, http.StatusUnprocessableEntity, "no_point", WrapKind(op, ErrNoTarget, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, hit)
}

func floatParam(q url.Values, name string, optional bool) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		if optional {
			return 0, nil
		}
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}
