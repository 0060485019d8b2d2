// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/orgpulse/internal/app"
	"github.com/okian/orgpulse/internal/domain/analytics"
	"github.com/okian/orgpulse/internal/domain/drilldown"
	"github.com/okian/orgpulse/internal/domain/filter"
	"github.com/okian/orgpulse/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	DashboardDependencies
	DrilldownDependencies
	SparklineDependencies
	RefreshDependencies
}

// DashboardDependencies computes dashboards.
type DashboardDependencies interface {
	Dashboard(ctx context.Context, st filter.State) analytics.Dashboard
}

// DrilldownDependencies maps chart clicks to roster targets.
type DrilldownDependencies interface {
	Drill(ctx context.Context, ev drilldown.Event, st filter.State) (drilldown.Target, error)
}

// SparklineDependencies resolves pointer positions on the admissions sparkline.
type SparklineDependencies interface {
	HitTest(ctx context.Context, st filter.State, x, width, pad float64) (SparklineHit, error)
}

// RefreshDependencies reloads the organization.
type RefreshDependencies interface {
	Refresh(ctx context.Context) (model.Meta, error)
}

// SparklineHit mirrors the hit-test result shape.
type SparklineHit = service.SparklineHit

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *DashboardHandler
	drilldownHandler *DrilldownHandler
	sparklineHandler *SparklineHandler
	refreshHandler   *RefreshHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: NewDashboardHandler(deps),
		drilldownHandler: NewDrilldownHandler(deps),
		sparklineHandler: NewSparklineHandler(deps),
		refreshHandler:   NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleGetDashboard, "dashboard"))
	mux.HandleFunc("/drilldown", MetricsMiddleware(s.drilldownHandler.HandleGetDrilldown, "drilldown"))
	mux.HandleFunc("/sparkline/hit", MetricsMiddleware(s.sparklineHandler.HandleGetHit, "sparkline_hit"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandlePostRefresh, "refresh"))
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
