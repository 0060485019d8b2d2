package drilldown

import "errors"

// Error constants.
var (
	// ErrNoTarget means the interaction does not map to a roster view.
	ErrNoTarget = errors.New("no drilldown target")
	// ErrBadValue means an event value could not be parsed.
	ErrBadValue = errors.New("bad drilldown value")
)
