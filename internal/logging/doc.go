// Package logging assembles structured slog loggers and formatting helpers used
// across skymaya.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so workflow code can tag log lines
// with run IDs, actors, DLC indexes, and ck-cmd operations. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same keys.
package logging
