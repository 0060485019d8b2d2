package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrStatus            = errors.New("unexpected status")
	ErrCollectionMissing = errors.New("collection missing")
	ErrNoBaseURL         = errors.New("base url required")
	ErrNoPath            = errors.New("fixture path required")
	ErrFixture           = errors.New("fixture unreadable")
)
