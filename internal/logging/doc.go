// Package logging assembles structured slog loggers used across mediasweep.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so run code can tag log lines
// with the run identifier and command name. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
