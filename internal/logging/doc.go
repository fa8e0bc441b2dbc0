// Package logging assembles structured slog loggers and formatting helpers used
// across lidscan.
//
// It owns the console and JSON handlers, the level and output plumbing, and the
// standardized attribute keys (component, run_id, session_id, device_jid,
// method) that let one run's log lines be filtered without re-running. Every
// component receives its logger explicitly; nothing in this package keeps
// global state. NewNop returns a discarding logger for tests and wiring code
// that cannot fail.
package logging
