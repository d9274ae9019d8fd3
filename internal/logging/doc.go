// Package logging assembles the structured slog loggers used across voxhook.
//
// Hook invocations are short-lived and usually run with stdout/stderr wired
// into an event pipeline that must never block, so loggers default to the
// state-directory log file plus stderr. The package also provides a no-op
// logger for tests and for wiring code that cannot fail.
package logging
