package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNilSnapshot = errors.New("nil snapshot")
)
