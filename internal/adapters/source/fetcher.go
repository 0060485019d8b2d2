// Package source fetches the raw organization collections and builds
// normalized snapshots from them.
package source

import "context"

// Collection names one of the top-level collections.
type Collection string

// Fetched collections.
const (
	CollectionSectors      Collection = "sectors"
	CollectionTeams        Collection = "teams"
	CollectionEmployees    Collection = "employees"
	CollectionCompetencies Collection = "competencies"
)

// Collections lists every top-level collection in load order.
var Collections = []Collection{ //nolint:gochecknoglobals // fixed list
	CollectionSectors,
	CollectionTeams,
	CollectionEmployees,
	CollectionCompetencies,
}

// Fetcher returns raw JSON bodies. Bodies may be bare arrays or wrapped
// arrays; normalize.Records unwraps both.
type Fetcher interface {
	Collection(ctx context.Context, c Collection) ([]byte, error)
	Assignments(ctx context.Context, employeeID int64) ([]byte, error)
}
