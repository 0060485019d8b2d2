// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - Errors wrap this package's sentinel kinds.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SourceBaseURL is the organization API root. Mutually exclusive with SourceFile.
	SourceBaseURL string `koanf:"source_base_url"`

	// SourceFile is a JSON fixture to load instead of calling the API.
	SourceFile string `koanf:"source_file"`

	// SourceTimeoutMS bounds each outbound request.
	SourceTimeoutMS int `koanf:"source_timeout_ms"`

	// FetchConcurrency bounds the per-employee assignment fan-out.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// Collection paths relative to SourceBaseURL. AssignmentsPath must carry an
	// {id} placeholder for the employee id.
	SectorsPath      string `koanf:"sectors_path"`
	TeamsPath        string `koanf:"teams_path"`
	EmployeesPath    string `koanf:"employees_path"`
	CompetenciesPath string `koanf:"competencies_path"`
	AssignmentsPath  string `koanf:"assignments_path"`

	// RefreshIntervalS reloads the organization periodically; 0 disables.
	RefreshIntervalS int `koanf:"refresh_interval_s"`

	// ViewCacheSize is the number of memoized dashboards.
	ViewCacheSize int `koanf:"view_cache_size"`

	// AssignmentPolicy is records or distinct.
	AssignmentPolicy string `koanf:"assignment_policy"`

	// Locale picks month labels: pt-BR or en.
	Locale string `koanf:"locale"`

	// RosterPath is where drilldowns land.
	RosterPath string `koanf:"roster_path"`

	// TopTeams and TopCompetencies cap the ranked views.
	TopTeams        int `koanf:"top_teams"`
	TopCompetencies int `koanf:"top_competencies"`
}

// New creates a Config with defaults. Context is accepted first to satisfy the
// project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		SourceTimeoutMS:  5000,
		FetchConcurrency: 8,
		SectorsPath:      "/setores",
		TeamsPath:        "/times",
		EmployeesPath:    "/colaboradores",
		CompetenciesPath: "/competencias",
		AssignmentsPath:  "/colaboradores/{id}/competencias",
		RefreshIntervalS: 0,
		ViewCacheSize:    256,
		AssignmentPolicy: "records",
		Locale:           "pt-BR",
		RosterPath:       "/colaboradores",
		TopTeams:         5,
		TopCompetencies:  10,
	}
}

// SourceTimeout returns SourceTimeoutMS as a duration.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutMS) * time.Millisecond
}

// RefreshInterval returns RefreshIntervalS as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalS) * time.Second
}
