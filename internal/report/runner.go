// Package report runs a one-shot dashboard computation for the command line.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/okian/orgpulse/internal/adapters/source"
	service "github.com/okian/orgpulse/internal/app"
	"github.com/okian/orgpulse/internal/domain/analytics"
	"github.com/okian/orgpulse/internal/domain/drilldown"
	"github.com/okian/orgpulse/internal/domain/filter"
	"github.com/okian/orgpulse/pkg/logger"
)

// Error constants.
var (
	ErrNoSource = errors.New("one of fixture or url is required")
	ErrBadNow   = errors.New("now must be RFC3339 or YYYY-MM-DD")
	ErrBadDrill = errors.New("drill must be kind:value")
	ErrBadInput = errors.New("invalid filter input")
)

// Run loads the organization, computes the dashboard and writes it to out
// as indented JSON.
func Run(ctx context.Context, cfg *Config, out io.Writer) error {
	lg := logger.Get().Named("report")

	now, err := parseNow(cfg.Now)
	if err != nil {
		return err
	}
	q := url.Values{}
	for key, v := range map[string]string{"period": cfg.Period, "sector": cfg.Sector, "competency": cfg.Competency} {
		if v != "" {
			q.Set(key, v)
		}
	}
	st, errs := filter.Parse(q)
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrBadInput, errors.Join(errs...))
	}
	policy := analytics.Policy(cfg.Policy)
	if cfg.Policy != "" && !policy.Valid() {
		return fmt.Errorf("%w: policy %q", ErrBadInput, cfg.Policy)
	}

	f, err := fetcher(cfg)
	if err != nil {
		return err
	}

	svc := service.New(
		service.WithLoader(source.NewLoader(f, source.WithLogger(lg.Named("source")))),
		service.WithEngine(analytics.NewEngine(
			analytics.WithPolicy(policy),
			analytics.WithLabeler(analytics.NewMonthLabeler(cfg.Locale)),
		)),
		service.WithClock(func() time.Time { return now }),
		service.WithLogger(lg),
	)

	meta, err := svc.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	lg.Debug(ctx, "organization loaded",
		logger.String("batchId", meta.BatchID),
		logger.Int("warnings", meta.Warnings))

	res := Output{Dashboard: svc.Dashboard(ctx, st), Meta: meta}
	if cfg.Drill != "" {
		ev, err := parseDrill(cfg.Drill)
		if err != nil {
			return err
		}
		target, err := svc.Drill(ctx, ev, st)
		if err != nil {
			return err
		}
		res.Drill = &Target{Path: target.Path, URL: target.String()}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func fetcher(cfg *Config) (source.Fetcher, error) {
	switch {
	case cfg.Fixture != "":
		return source.NewFileFetcher(cfg.Fixture)
	case cfg.BaseURL != "":
		return source.NewHTTPFetcher(cfg.BaseURL, source.WithTimeout(cfg.Timeout))
	}
	return nil, ErrNoSource
}

func parseNow(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadNow, raw)
}

func parseDrill(raw string) (drilldown.Event, error) {
	k, v, ok := strings.Cut(raw, ":")
	if !ok {
		return drilldown.Event{}, fmt.Errorf("%w: %q", ErrBadDrill, raw)
	}
	kind, err := drilldown.ParseKind(k)
	if err != nil {
		return drilldown.Event{}, err
	}
	value, err := drilldown.ParseValue(kind, v)
	if err != nil {
		return drilldown.Event{}, err
	}
	return drilldown.Event{Kind: kind, Value: value}, nil
}
