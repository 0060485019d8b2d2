// Package dedupe tracks keys already counted within one aggregation pass.
package dedupe

import "strconv"

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord reports whether key was seen before and records it if not.
	SeenAndRecord(key string) bool

	// Size returns the number of distinct keys recorded.
	Size() int
}

// inMemoryDeduper is an unbounded map-backed Deduper. It is owned by a single
// aggregation call and is not safe for concurrent use.
type inMemoryDeduper struct {
	seen map[string]struct{}
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &inMemoryDeduper{seen: make(map[string]struct{}, cfg.capacity)}
}

// SeenAndRecord implements Deduper.
func (d *inMemoryDeduper) SeenAndRecord(key string) bool {
	if _, exists := d.seen[key]; exists {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

// Size implements Deduper.
func (d *inMemoryDeduper) Size() int {
	return len(d.seen)
}

// passThrough never reports a key as seen.
type passThrough struct{ n int }

// NewPassThrough returns a Deduper that counts every record, used when
// duplicates must be counted independently.
func NewPassThrough() Deduper { return &passThrough{} }

func (p *passThrough) SeenAndRecord(string) bool {
	p.n++
	return false
}

func (p *passThrough) Size() int { return p.n }

// AssignmentKey identifies an (employee, competency) pair.
func AssignmentKey(employeeID, competencyID int64) string {
	return strconv.FormatInt(employeeID, 10) + ":" + strconv.FormatInt(competencyID, 10)
}
