package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/orgpulse/internal/domain/analytics"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ORGPULSE_"

// EnvConfigPath names the variable holding an optional YAML file path.
const EnvConfigPath = EnvPrefix + "CONFIG"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if ORGPULSE_CONFIG is set
//  3. env (prefix ORGPULSE_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// ORGPULSE_SOURCE_BASE_URL -> source_base_url (flat keys, underscores kept).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate(_ context.Context) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Addr == "" {
		return invalid("addr must not be empty")
	}
	switch {
	case c.SourceBaseURL == "" && c.SourceFile == "":
		return invalid("one of source_base_url or source_file must be set")
	case c.SourceBaseURL != "" && c.SourceFile != "":
		return invalid("source_base_url and source_file are mutually exclusive")
	}
	if c.SourceBaseURL != "" && !strings.Contains(c.AssignmentsPath, "{id}") {
		return invalid("assignments_path %q must contain {id}", c.AssignmentsPath)
	}
	if !analytics.Policy(c.AssignmentPolicy).Valid() {
		return invalid("unknown assignment_policy %q", c.AssignmentPolicy)
	}
	if c.SourceTimeoutMS <= 0 {
		return invalid("source_timeout_ms must be positive")
	}
	if c.FetchConcurrency <= 0 {
		return invalid("fetch_concurrency must be positive")
	}
	if c.RefreshIntervalS < 0 {
		return invalid("refresh_interval_s must not be negative")
	}
	if c.ViewCacheSize <= 0 {
		return invalid("view_cache_size must be positive")
	}
	if c.TopTeams <= 0 || c.TopCompetencies <= 0 {
		return invalid("top_teams and top_competencies must be positive")
	}
	return nil
}
