package source

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/tidwall/gjson"
)

// FileFetcher serves collections from a JSON fixture shaped as
//
//	{"sectors": [...], "teams": [...], "employees": [...], "competencies": [...],
//	 "assignments": {"<employee id>": [...]}}
//
// The file is re-read on every load so edits are picked up by a refresh.
type FileFetcher struct {
	path string
}

// NewFileFetcher creates a fetcher over the fixture at path. The file must
// exist when the fetcher is created.
func NewFileFetcher(path string) (*FileFetcher, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFixture, err)
	}
	return &FileFetcher{path: path}, nil
}

// Collection implements Fetcher.
func (f *FileFetcher) Collection(_ context.Context, c Collection) ([]byte, error) {
	doc, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	v := gjson.GetBytes(doc, string(c))
	if !v.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrCollectionMissing, c)
	}
	return []byte(v.Raw), nil
}

// Assignments implements Fetcher. An employee absent from the fixture has no
// assignments.
func (f *FileFetcher) Assignments(_ context.Context, employeeID int64) ([]byte, error) {
	doc, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	v := gjson.GetBytes(doc, "assignments."+strconv.FormatInt(employeeID, 10))
	if !v.Exists() {
		return []byte("[]"), nil
	}
	return []byte(v.Raw), nil
}
