package repository

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/orgpulse/internal/domain/model"
	"github.com/okian/orgpulse/pkg/metrics"
)

// SnapshotStore is an in-memory Store. Reads are lock-free; publication is
// serialized so generations are strictly increasing in publication order.
type SnapshotStore struct {
	mu         sync.Mutex
	current    atomic.Pointer[model.Snapshot]
	generation uint64
}

// NewSnapshotStore creates a store holding an empty snapshot.
func NewSnapshotStore(_ context.Context, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{}
	s.current.Store(model.Empty())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace implements Store. The caller's snapshot is copied before its
// generation is stamped, so the argument is not modified.
func (s *SnapshotStore) Replace(_ context.Context, snap *model.Snapshot) (*model.Snapshot, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	published := *snap
	published.Meta.Generation = s.generation
	s.current.Store(&published)

	metrics.UpdateSnapshotGeneration(s.generation)
	metrics.UpdateSnapshotEntities("sectors", len(published.Sectors))
	metrics.UpdateSnapshotEntities("teams", len(published.Teams))
	metrics.UpdateSnapshotEntities("employees", len(published.Employees))
	metrics.UpdateSnapshotEntities("competencies", len(published.Competencies))
	metrics.UpdateSnapshotEntities("assignments", len(published.Assignments))
	return &published, nil
}

// Current implements Store.
func (s *SnapshotStore) Current(_ context.Context) *model.Snapshot {
	return s.current.Load()
}

// Generation implements Store.
func (s *SnapshotStore) Generation(_ context.Context) uint64 {
	return s.current.Load().Meta.Generation
}
