package source

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/okian/orgpulse/internal/domain/dedupe"
	"github.com/okian/orgpulse/internal/domain/model"
	"github.com/okian/orgpulse/internal/domain/normalize"
	"github.com/okian/orgpulse/pkg/logger"
	"github.com/okian/orgpulse/pkg/metrics"
)

const defaultConcurrency = 8

// Load outcomes reported to metrics.
const (
	outcomeOK       = "ok"
	outcomeDegraded = "degraded"
	outcomeFailed   = "failed"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithConcurrency bounds the per-employee assignment fan-out.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithDecoder replaces the record decoder, e.g. to read offset-less
// timestamps in a given location.
func WithDecoder(d *normalize.Decoder) Option {
	return func(l *Loader) {
		if d != nil {
			l.decoder = d
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithClock overrides the load timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// Loader fetches every collection and builds a snapshot from them. A failed
// fetch degrades to an empty collection; it never aborts the batch.
type Loader struct {
	fetcher     Fetcher
	decoder     *normalize.Decoder
	concurrency int
	logger      logger.Logger
	now         func() time.Time
}

// NewLoader creates a Loader reading from f.
func NewLoader(f Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher:     f,
		decoder:     normalize.New(),
		concurrency: defaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get().Named("source")
	}
	return l
}

// batch accumulates the load report. Methods are safe for concurrent use.
type batch struct {
	mu                sync.Mutex
	warnings          int
	failedCollections []string
	failedEmployees   []int64
}

func (b *batch) warn(n int) {
	b.mu.Lock()
	b.warnings += n
	b.mu.Unlock()
}

func (b *batch) failCollection(c Collection) {
	b.mu.Lock()
	b.failedCollections = append(b.failedCollections, string(c))
	b.mu.Unlock()
}

func (b *batch) failEmployee(id int64) {
	b.mu.Lock()
	b.failedEmployees = append(b.failedEmployees, id)
	b.mu.Unlock()
}

// Load runs one batch. The only error is ctx cancellation; partial results
// are discarded in that case.
func (l *Loader) Load(ctx context.Context) (*model.Snapshot, error) {
	start := l.now()
	id := uuid.NewString()
	log := l.logger
	b := &batch{}

	log.Info(ctx, "load started", logger.String("batch_id", id))

	bodies := make(map[Collection][]gjson.Result, len(Collections))
	var mu sync.Mutex
	var g errgroup.Group
	for _, c := range Collections {
		g.Go(func() error {
			body, err := l.fetcher.Collection(ctx, c)
			if err != nil {
				log.Warn(ctx, "collection fetch failed, using empty collection",
					logger.String("batch_id", id),
					logger.String("collection", string(c)),
					logger.Error(err),
				)
				metrics.RecordCollectionFetchError(string(c))
				b.failCollection(c)
				body = nil
			}
			recs := normalize.Records(body)
			mu.Lock()
			bodies[c] = recs
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		metrics.RecordLoad(outcomeFailed, msSince(l.now(), start))
		return nil, err
	}

	snap := &model.Snapshot{
		Sectors:      decodeAll(ctx, log, b, "sector", bodies[CollectionSectors], l.decoder.Sector),
		Teams:        decodeAll(ctx, log, b, "team", bodies[CollectionTeams], l.decoder.Team),
		Employees:    decodeAll(ctx, log, b, "employee", bodies[CollectionEmployees], l.decoder.Employee),
		Competencies: decodeAll(ctx, log, b, "competency", bodies[CollectionCompetencies], l.decoder.Competency),
	}

	assignments, err := l.loadAssignments(ctx, id, snap.Employees, normalize.NewIndex(snap.Competencies), b)
	if err != nil {
		metrics.RecordLoad(outcomeFailed, msSince(l.now(), start))
		return nil, err
	}
	snap.Assignments = assignments

	end := l.now()
	slices.Sort(b.failedCollections)
	slices.Sort(b.failedEmployees)
	snap.Meta = model.Meta{
		BatchID:             id,
		LoadedAt:            end,
		Duration:            end.Sub(start).String(),
		Warnings:            b.warnings,
		FailedCollections:   append([]string{}, b.failedCollections...),
		FailedAssignmentIDs: append([]int64{}, b.failedEmployees...),
	}

	outcome := outcomeOK
	if len(b.failedCollections) > 0 || len(b.failedEmployees) > 0 {
		outcome = outcomeDegraded
	}
	metrics.RecordLoad(outcome, msSince(end, start))

	log.Info(ctx, "load finished",
		logger.String("batch_id", id),
		logger.String("outcome", outcome),
		logger.Duration("took", end.Sub(start)),
		logger.Int("sectors", len(snap.Sectors)),
		logger.Int("teams", len(snap.Teams)),
		logger.Int("employees", len(snap.Employees)),
		logger.Int("competencies", len(snap.Competencies)),
		logger.Int("assignments", len(snap.Assignments)),
		logger.Int("warnings", b.warnings),
		logger.Int("failed_collections", len(b.failedCollections)),
		logger.Int("failed_assignment_fetches", len(b.failedEmployees)),
	)
	return snap, nil
}

// loadAssignments fans out one fetch per distinct resolvable employee id and
// joins them in employee order.
func (l *Loader) loadAssignments(ctx context.Context, batchID string, employees []model.Employee, idx *normalize.Index, b *batch) ([]model.Assignment, error) {
	ids := make([]int64, 0, len(employees))
	seen := make(map[int64]struct{}, len(employees))
	for _, e := range employees {
		if e.ID == 0 {
			continue
		}
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		ids = append(ids, e.ID)
	}

	per := make([][]model.Assignment, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, empID := range ids {
		g.Go(func() error {
			started := time.Now()
			body, err := l.fetcher.Assignments(gctx, empID)
			metrics.RecordAssignmentFetchLatency(float64(time.Since(started).Microseconds()) / 1000)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				l.logger.Warn(gctx, "assignment fetch failed, using empty list",
					logger.String("batch_id", batchID),
					logger.Int64("employee_id", empID),
					logger.Error(err),
				)
				metrics.RecordAssignmentFetchError()
				b.failEmployee(empID)
				return nil
			}
			per[i] = l.decodeAssignments(gctx, empID, body, idx, b)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := []model.Assignment{}
	pairs := dedupe.NewInMemoryDeduper(dedupe.WithCapacity(len(ids)))
	for _, list := range per {
		for _, a := range list {
			if pairs.SeenAndRecord(dedupe.AssignmentKey(a.EmployeeID, a.CompetencyID)) {
				metrics.RecordDuplicateAssignment()
			}
			out = append(out, a)
		}
	}
	return out, nil
}

func (l *Loader) decodeAssignments(ctx context.Context, empID int64, body []byte, idx *normalize.Index, b *batch) []model.Assignment {
	recs := normalize.Records(body)
	out := make([]model.Assignment, 0, len(recs))
	for _, raw := range recs {
		r := l.decoder.Assignment(empID, raw, idx)
		if r.Defaulted() {
			b.warn(len(r.Warnings))
			metrics.RecordNormalizationWarnings("assignment", len(r.Warnings))
			l.logger.Debug(ctx, "assignment defaulted",
				logger.Int64("employee_id", empID),
				logger.Any("warnings", r.Warnings),
			)
		}
		if r.Value.CompetencyID == 0 {
			l.logger.Warn(ctx, "dropping unresolved assignment",
				logger.Int64("employee_id", empID),
				logger.String("raw", raw.Raw),
			)
			continue
		}
		out = append(out, r.Value)
	}
	return out
}

func decodeAll[T any](ctx context.Context, log logger.Logger, b *batch, entity string, recs []gjson.Result, decode func(gjson.Result) normalize.Result[T]) []T {
	out := make([]T, 0, len(recs))
	warned := 0
	for _, raw := range recs {
		r := decode(raw)
		if r.Defaulted() {
			warned += len(r.Warnings)
			log.Debug(ctx, "record defaulted",
				logger.String("entity", entity),
				logger.Any("warnings", r.Warnings),
			)
		}
		out = append(out, r.Value)
	}
	b.warn(warned)
	metrics.RecordNormalizationWarnings(entity, warned)
	return out
}

func msSince(end, start time.Time) float64 {
	return float64(end.Sub(start).Microseconds()) / 1000
}
