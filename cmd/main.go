package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/orgpulse/internal/adapters/http/api"
	"github.com/okian/orgpulse/internal/adapters/http/swagger"
	"github.com/okian/orgpulse/internal/adapters/source"
	service "github.com/okian/orgpulse/internal/app"
	"github.com/okian/orgpulse/internal/config"
	"github.com/okian/orgpulse/internal/domain/analytics"
	"github.com/okian/orgpulse/internal/domain/drilldown"
	"github.com/okian/orgpulse/pkg/logger"
	"github.com/okian/orgpulse/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Our registry carries its own system gauges.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger format comes from config, so it is not available yet.
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build service", logger.Error(err))
		return
	}
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx, metrics.RefreshInterval())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newFetcher picks the file fixture or the HTTP source from cfg.
func newFetcher(cfg *config.Config) (source.Fetcher, error) {
	if cfg.SourceFile != "" {
		return source.NewFileFetcher(cfg.SourceFile)
	}
	return source.NewHTTPFetcher(cfg.SourceBaseURL,
		source.WithTimeout(cfg.SourceTimeout()),
		source.WithPaths(source.Paths{
			Sectors:      cfg.SectorsPath,
			Teams:        cfg.TeamsPath,
			Employees:    cfg.EmployeesPath,
			Competencies: cfg.CompetenciesPath,
			Assignments:  cfg.AssignmentsPath,
		}),
	)
}

// newService wires the loader, engine and bridge described by cfg.
func newService(cfg *config.Config, lg logger.Logger) (*service.Service, error) {
	f, err := newFetcher(cfg)
	if err != nil {
		return nil, err
	}

	loader := source.NewLoader(f,
		source.WithConcurrency(cfg.FetchConcurrency),
		source.WithLogger(lg.Named("source")),
	)
	engine := analytics.NewEngine(
		analytics.WithPolicy(analytics.Policy(cfg.AssignmentPolicy)),
		analytics.WithLabeler(analytics.NewMonthLabeler(cfg.Locale)),
		analytics.WithTopTeams(cfg.TopTeams),
		analytics.WithTopCompetencies(cfg.TopCompetencies),
	)

	return service.New(
		service.WithLoader(loader),
		service.WithEngine(engine),
		service.WithBridge(drilldown.New(drilldown.WithRosterPath(cfg.RosterPath))),
		service.WithCacheSize(cfg.ViewCacheSize),
		service.WithRefreshInterval(cfg.RefreshInterval()),
		service.WithLogger(lg.Named("service")),
	), nil
}

// newMux registers the API and OpenAPI routes.
func newMux(ctx context.Context, svc *service.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater samples runtime gauges until ctx ends.
func startSystemMetricsUpdater(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
