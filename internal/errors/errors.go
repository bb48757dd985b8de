package errors

import (
	"errors"
	"fmt"
)

// Exit codes for monitor-ctl
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitTargetNotFound  = 2
	ExitCancelled       = 3
	ExitPortAllocation  = 4
	ExitContainerFailed = 5
	ExitConfigError     = 6
	ExitDiscoveryFailed = 7
)

// Kind classifies an error or warning.
type Kind string

const (
	KindNotFound      Kind = "not-found"
	KindUnreachable   Kind = "unreachable"
	KindAmbiguous     Kind = "ambiguous"
	KindPortExhausted Kind = "port-exhausted"
	KindCancelled     Kind = "cancelled"
	KindUnverified    Kind = "unverified"
	KindUnsupported   Kind = "unsupported"
	KindGeneral       Kind = "general"
)

// Fatal reports whether errors of this kind halt the flow.
func (k Kind) Fatal() bool {
	return k == KindNotFound || k == KindCancelled
}

// MonitorError is the base error type for monitor-ctl
type MonitorError struct {
	Code    int
	Kind    Kind
	Message string
	Cause   error
}

func (e *MonitorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *MonitorError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *MonitorError) ExitCode() int {
	return e.Code
}

// New creates a new MonitorError
func New(code int, message string) *MonitorError {
	return &MonitorError{
		Code:    code,
		Kind:    KindGeneral,
		Message: message,
	}
}

// Wrap wraps an existing error with a MonitorError
func Wrap(code int, message string, cause error) *MonitorError {
	return &MonitorError{
		Code:    code,
		Kind:    KindGeneral,
		Message: message,
		Cause:   cause,
	}
}

// TargetNotFound is returned when the target service is neither running in a
// container nor as a native process. Discovery cannot continue without
// operator-supplied endpoints.
func TargetNotFound(name string) *MonitorError {
	return &MonitorError{
		Code:    ExitTargetNotFound,
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found as a container or a native process", name),
	}
}

// Cancelled returns an error for an operator abort
func Cancelled(step string) *MonitorError {
	return &MonitorError{
		Code:    ExitCancelled,
		Kind:    KindCancelled,
		Message: fmt.Sprintf("cancelled at %s", step),
	}
}

// PortAllocationFailed returns an error for port allocation failure
func PortAllocationFailed(cause error) *MonitorError {
	return Wrap(ExitPortAllocation, "failed to allocate port", cause)
}

// ContainerFailed returns an error for container operations
func ContainerFailed(op string, cause error) *MonitorError {
	return Wrap(ExitContainerFailed, fmt.Sprintf("container %s failed", op), cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *MonitorError {
	return Wrap(ExitConfigError, message, cause)
}

// DiscoveryFailed returns an error for endpoint discovery that could not run at all
func DiscoveryFailed(message string, cause error) *MonitorError {
	return Wrap(ExitDiscoveryFailed, message, cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *MonitorError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var monitorErr *MonitorError
	if errors.As(err, &monitorErr) {
		return monitorErr.ExitCode()
	}
	return ExitGeneralError
}

// IsKind reports whether err carries a MonitorError of the given kind.
func IsKind(err error, kind Kind) bool {
	var monitorErr *MonitorError
	if errors.As(err, &monitorErr) {
		return monitorErr.Kind == kind
	}
	return false
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
