// Package logging builds slog loggers with console or JSON output and the
// structured field keys shared across reclaim components.
package logging
