package monitor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rippled-monitor/monitor-ctl/internal/audit"
	"github.com/rippled-monitor/monitor-ctl/internal/health"
)

// sequence replays statuses; the last one repeats.
func sequence(statuses ...health.Status) CheckFunc {
	var mu sync.Mutex
	i := 0
	return func(context.Context) (health.Status, *health.CheckResult, error) {
		mu.Lock()
		defer mu.Unlock()
		s := statuses[i]
		if i < len(statuses)-1 {
			i++
		}
		return s, &health.CheckResult{}, nil
	}
}

func TestMonitor_New(t *testing.T) {
	m := New(30*time.Second, "p", sequence(health.StatusHealthy))
	if m.interval != 30*time.Second {
		t.Errorf("interval = %v, want %v", m.interval, 30*time.Second)
	}
	if m.auditLog != nil {
		t.Error("auditLog should default to nil")
	}
}

func TestMonitor_Options(t *testing.T) {
	auditLogger := audit.NewLogger(t.TempDir())

	m := New(time.Minute, "p", sequence(health.StatusHealthy),
		WithAuditLogger(auditLogger),
		WithNotify(func(CheckResult) {}),
	)

	if m.auditLog == nil {
		t.Error("auditLog should be set")
	}
	if m.notify == nil {
		t.Error("notify should be set")
	}
}

func TestMonitor_LogsOnlyChanges(t *testing.T) {
	auditLogger := audit.NewLogger(t.TempDir())
	m := New(time.Second, "rippled-monitor",
		sequence(health.StatusHealthy, health.StatusHealthy, health.StatusDegraded, health.StatusDegraded),
		WithAuditLogger(auditLogger))
	ctx := context.Background()

	var changed []bool
	for i := 0; i < 4; i++ {
		changed = append(changed, m.checkOnce(ctx).Changed)
	}
	want := []bool{true, false, true, false}
	for i := range want {
		if changed[i] != want[i] {
			t.Errorf("check %d changed = %v, want %v", i, changed[i], want[i])
		}
	}

	events, err := auditLogger.Events("rippled-monitor")
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d audit events, want 2", len(events))
	}
	if events[0].Type != audit.EventHealth || events[0].Details != "healthy" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Details != "healthy -> degraded" {
		t.Errorf("second event details = %q", events[1].Details)
	}
}

func TestMonitor_CheckError(t *testing.T) {
	auditLogger := audit.NewLogger(t.TempDir())
	failing := func(context.Context) (health.Status, *health.CheckResult, error) {
		return health.StatusHealthy, nil, fmt.Errorf("no saved state")
	}
	m := New(time.Second, "p", failing, WithAuditLogger(auditLogger))

	r := m.checkOnce(context.Background())
	if r.Status != health.StatusUnknown {
		t.Errorf("status = %s, want unknown", r.Status)
	}

	events, _ := auditLogger.Events("p")
	if len(events) != 1 || events[0].Type != audit.EventError {
		t.Errorf("events = %+v", events)
	}
}

func TestMonitor_RunCancellation(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	m := New(100*time.Millisecond, "p", sequence(health.StatusHealthy),
		WithNotify(func(CheckResult) {
			mu.Lock()
			calls++
			mu.Unlock()
		}))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx)
	}()

	// Let it run briefly then cancel
	time.Sleep(250 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop after context cancellation")
	}

	mu.Lock()
	defer mu.Unlock()
	if calls < 2 {
		t.Errorf("notify called %d times, want at least 2", calls)
	}
}
