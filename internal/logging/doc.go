// Package logging assembles structured slog loggers and formatting helpers used
// across minutes.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing (including per-component level overrides), and exposes
// context-aware helpers so pipeline code can tag log lines with session IDs,
// recipients, and correlation IDs. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
package logging
