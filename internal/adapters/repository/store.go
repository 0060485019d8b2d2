// Package repository holds the published organization snapshot.
package repository

import (
	"context"

	"github.com/okian/orgpulse/internal/domain/model"
)

// Store publishes and serves snapshots.
type Store interface {
	// Replace publishes snap as the current snapshot, stamping it with the next
	// generation. The last call to finish wins; nothing is merged.
	Replace(ctx context.Context, snap *model.Snapshot) (*model.Snapshot, error)

	// Current returns the published snapshot. Before the first Replace it is an
	// empty snapshot with generation 0.
	Current(ctx context.Context) *model.Snapshot

	// Generation returns the generation of the current snapshot.
	Generation(ctx context.Context) uint64
}
