package smoke

import (
	"fmt"
	"os"

	"github.com/okian/scorecalc/pkg/logger"
)

// SetupLogging initializes the logger for the smoke tool.
func SetupLogging(format string, verbose bool) error {
	if err := logger.Init(logger.WithFormat(format)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`scorecalc smoke tool
====================

Runs every registered calculator's example parameters against a running
service, checks each response stage against the declared stages, and checks
that unknown calculators are reported as 404.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -repeat int
        Calculations submitted per calculator (default 20)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -log-format string
        Log encoding: text or json (default "text")
  -verbose
        Log every verified request
  -help
        Show this help message

Examples:
  go run ./cmd/smoke
  go run ./cmd/smoke -repeat 500 -workers 16 -url http://localhost:8080
`)
}
