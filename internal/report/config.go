package report

import (
	"time"

	"github.com/okian/orgpulse/internal/domain/analytics"
	"github.com/okian/orgpulse/internal/domain/model"
)

// Config holds configuration for one report run.
type Config struct {
	Fixture    string        // JSON fixture to load; exclusive with BaseURL
	BaseURL    string        // Organization API root
	Timeout    time.Duration // HTTP request timeout
	Now        string        // Anchor time, RFC3339 or YYYY-MM-DD; empty means now
	Period     string        // 6, 12 or 36
	Sector     string        // Sector id or "all"
	Competency string        // Competency id or "all"
	Locale     string        // Month label locale
	Policy     string        // Assignment counting policy
	Drill      string        // Optional kind:value click to resolve
	Verbose    bool          // Enable debug logging
}

// Output is what a run prints.
type Output struct {
	Dashboard analytics.Dashboard `json:"dashboard"`
	Meta      model.Meta          `json:"meta"`
	Drill     *Target             `json:"drill,omitempty"`
}

// Target is a resolved drilldown.
type Target struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}
