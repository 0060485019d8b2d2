// Package service wires loading, the snapshot store and the aggregation
// engine behind the operations the HTTP API and CLI need.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	repository "github.com/okian/orgpulse/internal/adapters/repository"
	"github.com/okian/orgpulse/internal/domain/analytics"
	"github.com/okian/orgpulse/internal/domain/drilldown"
	"github.com/okian/orgpulse/internal/domain/filter"
	"github.com/okian/orgpulse/internal/domain/model"
	"github.com/okian/orgpulse/pkg/logger"
	"github.com/okian/orgpulse/pkg/metrics"
)

const defaultCacheSize = 256

// Loader produces a fresh snapshot.
type Loader interface {
	Load(ctx context.Context) (*model.Snapshot, error)
}

// ErrNoLoader is returned by Refresh when the service was built without one.
var ErrNoLoader = errors.New("no loader configured")

// Service serves dashboards over the current snapshot.
type Service struct {
	mu sync.Mutex

	// Core components
	loader Loader
	store  repository.Store
	engine *analytics.Engine
	bridge *drilldown.Bridge
	views  *lru.Cache[string, analytics.Dashboard]

	// Configuration
	cacheSize       int
	refreshInterval time.Duration
	now             func() time.Time

	// State
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLoader sets the snapshot source.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithStore replaces the snapshot store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithEngine replaces the aggregation engine.
func WithEngine(e *analytics.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithBridge replaces the drilldown bridge.
func WithBridge(b *drilldown.Bridge) Option {
	return func(s *Service) {
		if b != nil {
			s.bridge = b
		}
	}
}

// WithCacheSize sets how many dashboards are memoized.
func WithCacheSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cacheSize = n
		}
	}
}

// WithRefreshInterval enables the periodic reload; 0 disables it.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithClock overrides the clock that anchors the admissions series.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine:    analytics.NewEngine(),
		bridge:    drilldown.New(),
		cacheSize: defaultCacheSize,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewSnapshotStore(context.Background())
	}
	// Only fails for a non-positive size, which the option rejects.
	s.views, _ = lru.New[string, analytics.Dashboard](s.cacheSize)

	return s
}

// Start performs the initial load and, when configured, the refresh loop.
// A failed initial load is logged; the service keeps serving the empty
// snapshot until a later refresh succeeds.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting analytics service...")

	if s.loader != nil {
		if _, err := s.Refresh(ctx); err != nil {
			s.logger.Error(ctx, "initial load failed", logger.Error(err))
		}
		if s.refreshInterval > 0 {
			s.wg.Add(1)
			go s.refreshLoop(s.stopCh)
		}
	}

	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.String("policy", string(s.engine.Policy())),
		logger.Int("cacheSize", s.cacheSize),
		logger.Duration("refreshInterval", s.refreshInterval),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping analytics service...")

	close(s.stopCh)
	s.wg.Wait()
	s.stopCh = make(chan struct{})

	s.started = false
	s.logger.Info(context.Background(), "analytics service stopped")
}

func (s *Service) refreshLoop(stop <-chan struct{}) {
	defer s.wg.Done()

	t := time.NewTicker(s.refreshInterval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				select {
				case <-stop:
					cancel()
				case <-ctx.Done():
				}
			}()
			if _, err := s.Refresh(ctx); err != nil {
				s.logger.Warn(ctx, "periodic refresh failed", logger.Error(err))
			}
			cancel()
		}
	}
}

// Refresh loads and publishes a new snapshot. Concurrent refreshes are not
// coordinated; the last one to publish wins.
func (s *Service) Refresh(ctx context.Context) (model.Meta, error) {
	if s.loader == nil {
		return model.Meta{}, ErrNoLoader
	}

	snap, err := s.loader.Load(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "load")
		return model.Meta{}, fmt.Errorf("load: %w", err)
	}

	published, err := s.store.Replace(ctx, snap)
	if err != nil {
		metrics.RecordErrorByComponent("service", "publish")
		return model.Meta{}, fmt.Errorf("publish: %w", err)
	}

	s.logger.Info(ctx, "snapshot published",
		logger.String("batch_id", published.Meta.BatchID),
		logger.Int64("generation", int64(published.Meta.Generation)), //nolint:gosec // generations stay small
		logger.Int("warnings", published.Meta.Warnings),
	)
	return published.Meta, nil
}

// Publish serves snap without going through the loader, e.g. a fixture.
func (s *Service) Publish(ctx context.Context, snap *model.Snapshot) (model.Meta, error) {
	published, err := s.store.Replace(ctx, snap)
	if err != nil {
		return model.Meta{}, err
	}
	return published.Meta, nil
}

// Dashboard returns every view for st over the current snapshot. Results are
// memoized per snapshot generation, filter state and anchor month.
func (s *Service) Dashboard(ctx context.Context, st filter.State) analytics.Dashboard {
	snap := s.store.Current(ctx)
	now := s.now()
	key := viewKey(snap.Meta.Generation, st, now)

	if d, ok := s.views.Get(key); ok {
		metrics.RecordDashboardCacheHit()
		return d
	}
	metrics.RecordDashboardCacheMiss()

	start := time.Now()
	d := s.engine.Compute(snap, st, now)
	metrics.RecordAggregationLatency(float64(time.Since(start).Microseconds()) / 1000)

	s.views.Add(key, d)
	return d
}

func viewKey(generation uint64, st filter.State, now time.Time) string {
	return fmt.Sprintf("g=%d;%s;m=%04d-%02d;z=%s", generation, st.Key(), now.Year(), now.Month(), now.Location())
}

// Drill maps a chart click under st to a roster target.
func (s *Service) Drill(_ context.Context, ev drilldown.Event, st filter.State) (drilldown.Target, error) {
	t, err := s.bridge.Drill(ev, st)
	if err != nil {
		metrics.RecordDrilldown(string(ev.Kind), "no_target")
		return drilldown.Target{}, err
	}
	metrics.RecordDrilldown(string(ev.Kind), "ok")
	return t, nil
}

// SparklineHit is the admissions bucket nearest to a pointer position.
type SparklineHit struct {
	Index  int              `json:"index"`
	Bucket analytics.Bucket `json:"bucket"`
	Target drilldown.Target `json:"target"`
}

// ErrNoPoint is returned when the sparkline has no point to hit.
var ErrNoPoint = errors.New("no sparkline point")

// HitTest resolves a pointer x on an admissions sparkline of the given
// geometry to its bucket and the bucket's drilldown target.
func (s *Service) HitTest(ctx context.Context, st filter.State, x, width, pad float64) (SparklineHit, error) {
	series := s.Dashboard(ctx, st).Admissions
	sp := drilldown.Sparkline{Points: len(series.Buckets), Width: width, Pad: pad}

	i, ok := sp.HitTest(x)
	if !ok {
		return SparklineHit{}, ErrNoPoint
	}
	b := series.Buckets[i]

	t, err := s.Drill(ctx, drilldown.Event{Kind: drilldown.KindMonth, Value: drilldown.MonthValue(b.Year, b.Month)}, st)
	if err != nil {
		return SparklineHit{}, err
	}
	return SparklineHit{Index: i, Bucket: b, Target: t}, nil
}

// Current returns the served snapshot.
func (s *Service) Current(ctx context.Context) *model.Snapshot {
	return s.store.Current(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	ctx := context.Background()
	snap := s.store.Current(ctx)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	return map[string]interface{}{
		"started":         started,
		"generation":      s.store.Generation(ctx),
		"meta":            snap.Meta,
		"policy":          string(s.engine.Policy()),
		"cacheSize":       s.cacheSize,
		"cachedViews":     s.views.Len(),
		"refreshInterval": s.refreshInterval.String(),
		"defaultFilter":   filter.Initial(),
		"entities": map[string]int{
			"sectors":      len(snap.Sectors),
			"teams":        len(snap.Teams),
			"employees":    len(snap.Employees),
			"competencies": len(snap.Competencies),
			"assignments":  len(snap.Assignments),
		},
	}
}
