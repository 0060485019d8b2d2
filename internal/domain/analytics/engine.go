// Package analytics computes the director dashboard's derived views from a
// snapshot and a filter state.
//
// Every function here is pure: same snapshot, state and anchor time, same
// output. Outputs are fresh values and are never mutated afterwards.
package analytics

import (
	"time"

	"github.com/okian/orgpulse/internal/domain/dedupe"
	"github.com/okian/orgpulse/internal/domain/filter"
	"github.com/okian/orgpulse/internal/domain/model"
)

// Default view sizes.
const (
	DefaultTopTeams        = 5
	DefaultTopCompetencies = 10
)

// Policy decides how repeated (employee, competency) assignments are counted.
type Policy string

// Counting policies.
const (
	// PolicyRecords counts every assignment record.
	PolicyRecords Policy = "records"
	// PolicyDistinct counts one record per (employee, competency) pair.
	PolicyDistinct Policy = "distinct"
)

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p == PolicyRecords || p == PolicyDistinct
}

func (p Policy) deduper() dedupe.Deduper {
	if p == PolicyDistinct {
		return dedupe.NewInMemoryDeduper()
	}
	return dedupe.NewPassThrough()
}

// Dashboard bundles every derived view for one filter state.
type Dashboard struct {
	Filter     filter.State `json:"filter"`
	Generation uint64       `json:"generation"`

	KPIs         KPIs         `json:"kpis"`
	Sectors      []SectorRank `json:"sectors"`
	TopTeams     []TeamRank   `json:"top_teams"`
	Admissions   Series       `json:"admissions"`
	Coverage     Coverage     `json:"coverage"`
	Distribution Distribution `json:"distribution"`
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithPolicy sets the assignment counting policy.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		if p.Valid() {
			e.policy = p
		}
	}
}

// WithLabeler sets the month labeler used by the admissions series.
func WithLabeler(l Labeler) Option {
	return func(e *Engine) {
		if l != nil {
			e.labeler = l
		}
	}
}

// WithTopTeams sets how many teams the team ranking keeps.
func WithTopTeams(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topTeams = n
		}
	}
}

// WithTopCompetencies sets how many rows the coverage view keeps.
func WithTopCompetencies(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topCompetencies = n
		}
	}
}

// Engine holds view parameters; it carries no state between calls.
type Engine struct {
	policy          Policy
	labeler         Labeler
	topTeams        int
	topCompetencies int
}

// NewEngine creates an Engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		policy:          PolicyRecords,
		labeler:         NewMonthLabeler(DefaultLocale),
		topTeams:        DefaultTopTeams,
		topCompetencies: DefaultTopCompetencies,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the configured counting policy.
func (e *Engine) Policy() Policy { return e.policy }

// Compute derives all dashboard views. A nil snapshot behaves as empty.
func (e *Engine) Compute(snap *model.Snapshot, st filter.State, now time.Time) Dashboard {
	if snap == nil {
		snap = model.Empty()
	}
	sc := NewScope(snap, st.Sector)
	return Dashboard{
		Filter:       st,
		Generation:   snap.Meta.Generation,
		KPIs:         ComputeKPIs(sc),
		Sectors:      RankSectors(sc),
		TopTeams:     TopTeams(sc, e.topTeams),
		Admissions:   Admissions(sc, st.Period, now, e.labeler),
		Coverage:     ComputeCoverage(sc, e.policy, e.topCompetencies),
		Distribution: ComputeDistribution(sc, st.Competency, e.policy),
	}
}
