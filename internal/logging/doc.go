// Package logging assembles structured slog loggers and formatting helpers used
// across the kitchen, journal, and CLI.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes context-aware helpers so task code can tag log lines with the run id.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
