// Package errors provides typed errors, exit codes and degraded-result
// warnings for monitor-ctl.
//
// # Error Types
//
// MonitorError wraps an error with an exit code and a Kind:
//
//	type MonitorError struct {
//	    Code    int    // Exit code
//	    Kind    Kind   // Taxonomy entry (not-found, cancelled, ...)
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// Only two kinds halt the flow and travel as errors: KindNotFound (neither
// deployment mode matched) and KindCancelled (the operator aborted). Every
// other kind is absorbed by the component that hit it and surfaced as a
// Warning next to a best-effort result.
//
// # Exit Codes
//
//	ExitSuccess          = 0 // Success
//	ExitGeneralError     = 1 // General/unknown errors
//	ExitTargetNotFound   = 2 // Validator not found natively or in a container
//	ExitCancelled        = 3 // Operator aborted the flow
//	ExitPortAllocation   = 4 // Port allocation failure
//	ExitContainerFailed  = 5 // Container runtime operation failed
//	ExitConfigError      = 6 // Configuration error
//	ExitDiscoveryFailed  = 7 // Endpoint discovery failed outright
//
// # Warnings
//
// Degraded decisions are never silent:
//
//	w := errors.Warnf(errors.KindAmbiguous, "no admin websocket found, using port %d", p)
//	logging.UserWarning("%s", w)
package errors
