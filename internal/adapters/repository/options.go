package repository

import "github.com/okian/orgpulse/internal/domain/model"

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithInitial seeds the store with snap as generation 0, e.g. a fixture to
// serve until the first load completes.
func WithInitial(snap *model.Snapshot) Option {
	return func(s *SnapshotStore) {
		if snap != nil {
			seeded := *snap
			seeded.Meta.Generation = 0
			s.current.Store(&seeded)
		}
	}
}
