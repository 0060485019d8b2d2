package filter

import "errors"

// Sentinel error kinds for filter parsing.
var (
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidSelection = errors.New("invalid selection")
)
