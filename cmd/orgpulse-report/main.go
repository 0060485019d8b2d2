package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/orgpulse/internal/report"
)

// Default configuration constants.
const (
	defaultTimeout    = 5 * time.Second
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	var (
		fixture    = flag.String("fixture", "", "JSON fixture holding every collection")
		baseURL    = flag.String("url", "", "Organization API root (instead of -fixture)")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		now        = flag.String("now", "", "Anchor time, RFC3339 or YYYY-MM-DD")
		period     = flag.String("period", "6", "Admissions window in months: 6, 12 or 36")
		sector     = flag.String("sector", "all", "Sector id or all")
		competency = flag.String("competency", "all", "Competency id or all")
		locale     = flag.String("locale", "pt-BR", "Month label locale")
		policy     = flag.String("policy", "records", "Assignment counting: records or distinct")
		drill      = flag.String("drill", "", "Resolve a chart click, e.g. level:3")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		report.ShowHelp()
		return
	}

	if err := report.SetupLogging(os.Stderr, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &report.Config{
		Fixture:    *fixture,
		BaseURL:    *baseURL,
		Timeout:    *timeout,
		Now:        *now,
		Period:     *period,
		Sector:     *sector,
		Competency: *competency,
		Locale:     *locale,
		Policy:     *policy,
		Drill:      *drill,
		Verbose:    *verbose,
	}

	if err := report.Run(ctx, cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("Report failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
