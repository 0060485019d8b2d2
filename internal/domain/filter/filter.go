// Package filter holds the dashboard selection and its transition rules.
//
// The three axes (period, sector, competency) are independent: an action
// only ever changes the axis it names.
package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Period is the admissions window length in months.
type Period int

// Supported periods.
const (
	Period6  Period = 6
	Period12 Period = 12
	Period36 Period = 36
)

// Valid reports whether p is one of the supported periods.
func (p Period) Valid() bool {
	switch p {
	case Period6, Period12, Period36:
		return true
	}
	return false
}

// ParsePeriod parses a month count.
func ParsePeriod(s string) (Period, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !Period(n).Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return Period(n), nil
}

// Selection is an entity id, or All when the axis is unconstrained.
// Zero is never a valid entity id, so it doubles as All.
type Selection int64

// All removes an axis constraint.
const All Selection = 0

const allToken = "all"

// IsAll reports whether the axis is unconstrained.
func (s Selection) IsAll() bool { return s == All }

// ID returns the selected entity id; 0 when IsAll.
func (s Selection) ID() int64 { return int64(s) }

func (s Selection) String() string {
	if s.IsAll() {
		return allToken
	}
	return strconv.FormatInt(int64(s), 10)
}

// ParseSelection accepts "all", an empty string, or a non-zero integer id.
func ParseSelection(s string) (Selection, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, allToken) {
		return All, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return All, fmt.Errorf("%w: %q", ErrInvalidSelection, s)
	}
	return Selection(n), nil
}

// State is the current dashboard selection. It is a value; transitions
// return a new State.
type State struct {
	Period     Period    `json:"period"`
	Sector     Selection `json:"sector"`
	Competency Selection `json:"competency"`
}

// Initial returns the state a freshly mounted dashboard starts from.
func Initial() State {
	return State{Period: Period6, Sector: All, Competency: All}
}

// Key is a structural key for the state, usable in memoization.
func (s State) Key() string {
	return fmt.Sprintf("p=%d;s=%s;c=%s", s.Period, s.Sector, s.Competency)
}

// Values renders the state as query parameters.
func (s State) Values() url.Values {
	v := url.Values{}
	v.Set("period", strconv.Itoa(int(s.Period)))
	v.Set("sector", s.Sector.String())
	v.Set("competency", s.Competency.String())
	return v
}

// Action is a state transition.
type Action interface {
	apply(State) State
}

// SetPeriod changes the admissions window. Unsupported periods are ignored.
type SetPeriod struct{ Period Period }

// SetSector changes the sector axis.
type SetSector struct{ Sector Selection }

// SetCompetency changes the competency axis.
type SetCompetency struct{ Competency Selection }

// Reset restores the initial state.
type Reset struct{}

func (a SetPeriod) apply(s State) State {
	if a.Period.Valid() {
		s.Period = a.Period
	}
	return s
}

func (a SetSector) apply(s State) State {
	s.Sector = a.Sector
	return s
}

func (a SetCompetency) apply(s State) State {
	s.Competency = a.Competency
	return s
}

func (Reset) apply(State) State { return Initial() }

// Reduce applies a to s. A nil action returns s unchanged.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

// Parse folds the period, sector and competency query parameters over the
// initial state. Missing or malformed values leave their axis at its initial
// value; the returned errors list what was ignored.
func Parse(values url.Values) (State, []error) {
	s := Initial()
	var errs []error

	if raw, ok := values["period"]; ok && len(raw) > 0 {
		p, err := ParsePeriod(raw[0])
		if err != nil {
			errs = append(errs, err)
		}
		s = Reduce(s, SetPeriod{Period: p})
	}
	if raw, ok := values["sector"]; ok && len(raw) > 0 {
		sel, err := ParseSelection(raw[0])
		if err != nil {
			errs = append(errs, err)
		} else {
			s = Reduce(s, SetSector{Sector: sel})
		}
	}
	if raw, ok := values["competency"]; ok && len(raw) > 0 {
		sel, err := ParseSelection(raw[0])
		if err != nil {
			errs = append(errs, err)
		} else {
			s = Reduce(s, SetCompetency{Competency: sel})
		}
	}
	return s, errs
}
