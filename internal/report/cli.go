package report

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/orgpulse/pkg/logger"
)

// SetupLogging sends logs to w so stdout only carries the report.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the report tool.
func ShowHelp() {
	os.Stdout.WriteString(`orgpulse report
===============

Loads an organization once and prints the dashboard for one filter state.

Usage:
  go run ./cmd/orgpulse-report [options]

Options:
  -fixture string
        JSON fixture holding every collection
  -url string
        Organization API root (instead of -fixture)
  -timeout duration
        HTTP request timeout (default 5s)
  -now string
        Anchor time, RFC3339 or YYYY-MM-DD (default: current time)
  -period string
        Admissions window in months: 6, 12 or 36 (default "6")
  -sector string
        Sector id or "all" (default "all")
  -competency string
        Competency id or "all" (default "all")
  -locale string
        Month labels: pt-BR or en (default "pt-BR")
  -policy string
        Assignment counting: records or distinct (default "records")
  -drill string
        Resolve a chart click, e.g. level:3, team:10, month:2026-01
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/orgpulse-report -fixture org.json -now 2026-06-15 -period 12
  go run ./cmd/orgpulse-report -fixture org.json -competency 1 -drill level:4
`)
}
