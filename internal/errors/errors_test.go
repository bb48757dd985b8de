package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestMonitorError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *MonitorError
		wantMsg string
	}{
		{
			name:    "without cause",
			err:     New(ExitGeneralError, "something went wrong"),
			wantMsg: "something went wrong",
		},
		{
			name:    "with cause",
			err:     Wrap(ExitGeneralError, "operation failed", fmt.Errorf("underlying error")),
			wantMsg: "operation failed: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestMonitorError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitGeneralError, "wrapped", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	errNoCause := New(ExitGeneralError, "no cause")
	if unwrapped := errNoCause.Unwrap(); unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestTargetNotFound(t *testing.T) {
	err := TargetNotFound("rippled")

	if err.Code != ExitTargetNotFound {
		t.Errorf("Code = %d, want %d", err.Code, ExitTargetNotFound)
	}
	if err.Kind != KindNotFound {
		t.Errorf("Kind = %q, want %q", err.Kind, KindNotFound)
	}
	if err.Message != "rippled not found as a container or a native process" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestCancelled(t *testing.T) {
	err := Cancelled("ports")

	if err.Code != ExitCancelled {
		t.Errorf("Code = %d, want %d", err.Code, ExitCancelled)
	}
	if !err.Kind.Fatal() {
		t.Error("cancelled should be fatal")
	}
}

func TestKindFatal(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindNotFound, true},
		{KindCancelled, true},
		{KindUnreachable, false},
		{KindAmbiguous, false},
		{KindPortExhausted, false},
		{KindUnverified, false},
		{KindUnsupported, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.Fatal(); got != tt.want {
				t.Errorf("Fatal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPortAllocationFailed(t *testing.T) {
	cause := fmt.Errorf("no ports available")
	err := PortAllocationFailed(cause)

	if err.Code != ExitPortAllocation {
		t.Errorf("Code = %d, want %d", err.Code, ExitPortAllocation)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
}

func TestContainerFailed(t *testing.T) {
	cause := fmt.Errorf("daemon unreachable")
	err := ContainerFailed("inspect", cause)

	if err.Code != ExitContainerFailed {
		t.Errorf("Code = %d, want %d", err.Code, ExitContainerFailed)
	}
	if err.Message != "container inspect failed" {
		t.Errorf("Message = %q, want %q", err.Message, "container inspect failed")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "MonitorError",
			err:      TargetNotFound("rippled"),
			wantCode: ExitTargetNotFound,
		},
		{
			name:     "wrapped MonitorError",
			err:      fmt.Errorf("outer: %w", Cancelled("review")),
			wantCode: ExitCancelled,
		},
		{
			name:     "config error",
			err:      ConfigError("bad toml", fmt.Errorf("line 3")),
			wantCode: ExitConfigError,
		},
		{
			name:     "regular error",
			err:      fmt.Errorf("some error"),
			wantCode: ExitGeneralError,
		},
		{
			name:     "nil error",
			err:      nil,
			wantCode: ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.wantCode {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.wantCode)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	wrapped := fmt.Errorf("flow: %w", Cancelled("ports"))

	if !IsKind(wrapped, KindCancelled) {
		t.Error("IsKind should find cancelled in chain")
	}
	if IsKind(wrapped, KindNotFound) {
		t.Error("IsKind should not match a different kind")
	}
	if IsKind(fmt.Errorf("plain"), KindCancelled) {
		t.Error("IsKind should be false for plain errors")
	}
}

func TestErrorChaining(t *testing.T) {
	root := fmt.Errorf("root cause")
	middle := Wrap(ExitConfigError, "config error", root)
	outer := fmt.Errorf("operation failed: %w", middle)

	if !errors.Is(outer, root) {
		t.Error("errors.Is should find root cause")
	}

	var monitorErr *MonitorError
	if !As(outer, &monitorErr) {
		t.Fatal("As should find MonitorError")
	}
	if monitorErr.Code != ExitConfigError {
		t.Errorf("Code = %d, want %d", monitorErr.Code, ExitConfigError)
	}
}

func TestWarnings(t *testing.T) {
	var ws Warnings
	ws.Addf(KindAmbiguous, "no admin endpoint among %d candidates", 2)
	ws.Add(Warnf(KindPortExhausted, "grafana forced to %d", 3000))
	ws.Addf(KindAmbiguous, "second")

	if len(ws) != 3 {
		t.Fatalf("len = %d, want 3", len(ws))
	}
	if got := len(ws.OfKind(KindAmbiguous)); got != 2 {
		t.Errorf("ambiguous count = %d, want 2", got)
	}
	if got := ws[0].String(); got != "[ambiguous] no admin endpoint among 2 candidates" {
		t.Errorf("String() = %q", got)
	}
}
