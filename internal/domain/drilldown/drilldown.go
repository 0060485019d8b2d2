// Package drilldown maps chart interactions to roster navigation targets.
package drilldown

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/orgpulse/internal/domain/filter"
	"github.com/okian/orgpulse/internal/domain/model"
)

// DefaultRosterPath is where drilldowns land.
const DefaultRosterPath = "/colaboradores"

// Roster query parameter names.
const (
	ParamSector     = "setor"
	ParamTeam       = "time"
	ParamCompetency = "competencia"
	ParamLevel      = "nivel"
	ParamAdmittedOn = "admissao_de"
	ParamAdmittedTo = "admissao_ate"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// Month events are limited to four-digit years.
const (
	minYear = 1
	maxYear = 9999
)

// Kind names the chart a bar belongs to.
type Kind string

// Supported event kinds.
const (
	KindLevel      Kind = "level"
	KindSector     Kind = "sector"
	KindTeam       Kind = "team"
	KindCompetency Kind = "competency"
	KindMonth      Kind = "month"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindLevel, KindSector, KindTeam, KindCompetency, KindMonth:
		return k, nil
	}
	return "", fmt.Errorf("%w: kind %q", ErrNoTarget, s)
}

// Event is a click on one bar. Value is a proficiency level, an entity id,
// or, for KindMonth, a month encoded as year*12 + (month-1); see MonthValue.
type Event struct {
	Kind  Kind  `json:"kind"`
	Value int64 `json:"value"`
}

// ParseValue reads an event value. Month values may also be given as
// YYYY-MM.
func ParseValue(kind Kind, raw string) (int64, error) {
	if kind == KindMonth {
		if t, err := time.Parse(monthLayout, raw); err == nil {
			return MonthValue(t.Year(), t.Month()), nil
		}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: value %q", ErrBadValue, raw)
	}
	return v, nil
}

// MonthValue encodes a calendar month for a KindMonth event.
func MonthValue(year int, month time.Month) int64 {
	return int64(year)*12 + int64(month-1)
}

// Target is a navigation descriptor for the routing collaborator.
type Target struct {
	Path  string     `json:"path"`
	Query url.Values `json:"query"`
}

// String renders path?query with keys sorted.
func (t Target) String() string {
	if len(t.Query) == 0 {
		return t.Path
	}
	return t.Path + "?" + t.Query.Encode()
}

// Option applies a configuration option to the Bridge.
type Option func(*Bridge)

// WithRosterPath overrides the landing path.
func WithRosterPath(path string) Option {
	return func(b *Bridge) {
		if path != "" {
			b.path = path
		}
	}
}

// Bridge builds targets. It holds configuration only.
type Bridge struct {
	path string
}

// New creates a Bridge.
func New(opts ...Option) *Bridge {
	b := &Bridge{path: DefaultRosterPath}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Drill maps ev under st to a roster target. The current sector and
// competency selections carry over unless the event itself sets that axis.
// It returns ErrNoTarget when the event cannot be placed, for example a level
// click while no competency is selected.
func (b *Bridge) Drill(ev Event, st filter.State) (Target, error) {
	q := url.Values{}
	carry := func(key string, sel filter.Selection) {
		if !sel.IsAll() {
			q.Set(key, sel.String())
		}
	}

	switch ev.Kind {
	case KindLevel:
		if st.Competency.IsAll() {
			return Target{}, fmt.Errorf("%w: level needs a selected competency", ErrNoTarget)
		}
		if ev.Value < model.MinLevel || ev.Value > model.MaxLevel {
			return Target{}, fmt.Errorf("%w: level %d out of range", ErrNoTarget, ev.Value)
		}
		q.Set(ParamCompetency, st.Competency.String())
		q.Set(ParamLevel, strconv.FormatInt(ev.Value, 10))
		carry(ParamSector, st.Sector)
	case KindSector:
		if ev.Value == 0 {
			return Target{}, fmt.Errorf("%w: unresolved sector", ErrNoTarget)
		}
		q.Set(ParamSector, strconv.FormatInt(ev.Value, 10))
		carry(ParamCompetency, st.Competency)
	case KindTeam:
		if ev.Value == 0 {
			return Target{}, fmt.Errorf("%w: unresolved team", ErrNoTarget)
		}
		q.Set(ParamTeam, strconv.FormatInt(ev.Value, 10))
		carry(ParamSector, st.Sector)
		carry(ParamCompetency, st.Competency)
	case KindCompetency:
		if ev.Value == 0 {
			return Target{}, fmt.Errorf("%w: unresolved competency", ErrNoTarget)
		}
		q.Set(ParamCompetency, strconv.FormatInt(ev.Value, 10))
		carry(ParamSector, st.Sector)
	case KindMonth:
		if ev.Value < MonthValue(minYear, time.January) || ev.Value > MonthValue(maxYear, time.December) {
			return Target{}, fmt.Errorf("%w: month %d out of range", ErrNoTarget, ev.Value)
		}
		year, month := int(ev.Value/12), time.Month(ev.Value%12+1)
		first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		q.Set(ParamAdmittedOn, first.Format(dateLayout))
		q.Set(ParamAdmittedTo, last.Format(dateLayout))
		carry(ParamSector, st.Sector)
	default:
		return Target{}, fmt.Errorf("%w: kind %q", ErrNoTarget, ev.Kind)
	}

	return Target{Path: b.path, Query: q}, nil
}
