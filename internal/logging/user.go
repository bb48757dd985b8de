package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rippled-monitor/monitor-ctl/internal/errors"
)

// User-facing output functions with status prefixes.
// These write to Stdout/Stderr directly for CLI output,
// separate from the structured debug logging.

var (
	// Stdout receives info and success messages.
	Stdout io.Writer = os.Stdout

	// Stderr receives warnings and errors.
	Stderr io.Writer = os.Stderr
)

// UserInfo prints an info message to stdout.
func UserInfo(format string, args ...interface{}) {
	fmt.Fprintf(Stdout, "ℹ "+format+"\n", args...)
}

// UserSuccess prints a success message to stdout.
func UserSuccess(format string, args ...interface{}) {
	fmt.Fprintf(Stdout, "✓ "+format+"\n", args...)
}

// UserWarning prints a warning message to stderr.
func UserWarning(format string, args ...interface{}) {
	fmt.Fprintf(Stderr, "⚠ "+format+"\n", args...)
}

// UserError prints an error message to stderr.
func UserError(format string, args ...interface{}) {
	fmt.Fprintf(Stderr, "✗ "+format+"\n", args...)
}

// UserWarnings prints each degraded decision and mirrors it to the debug log.
func UserWarnings(ws errors.Warnings) {
	for _, w := range ws {
		UserWarning("%s", w.Message)
		Logger.Warn("degraded decision", "kind", string(w.Kind), "detail", w.Message)
	}
}
