// Package logging holds the slog logger and the prefixed operator output
// used by every monitor-ctl command.
//
// Structured records go to stderr through a text handler, or a JSON handler
// when --json is set, and drop to debug level with --verbose:
//
//	logging.Setup(verbose, jsonOutput, os.Stderr)
//	logging.Debug("probing candidate", "port", 6006, "pass", "ws")
//
// Operator messages carry a status glyph. Info (ℹ) and success (✓) go to
// Stdout; warning (⚠) and error (✗) go to Stderr. Both writers can be
// swapped in tests.
//
// Discovery and allocation never fail silently on a degraded path. They
// return errors.Warnings, and callers hand them to UserWarnings, which
// prints each one and mirrors it into the structured log:
//
//	desc, ws, err := detector.Detect(ctx)
//	logging.UserWarnings(ws)
package logging
