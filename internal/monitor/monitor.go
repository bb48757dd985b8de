// Package monitor provides background health monitoring of the saved
// validator endpoints.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/rippled-monitor/monitor-ctl/internal/audit"
	"github.com/rippled-monitor/monitor-ctl/internal/health"
	"github.com/rippled-monitor/monitor-ctl/internal/logging"
)

// CheckFunc runs one health check.
type CheckFunc func(ctx context.Context) (health.Status, *health.CheckResult, error)

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Time    time.Time
	Status  health.Status
	Health  *health.CheckResult
	Err     error
	Changed bool
}

// Monitor periodically checks the validator's health.
type Monitor struct {
	interval time.Duration
	project  string
	check    CheckFunc
	auditLog *audit.Logger
	notify   func(CheckResult)

	last health.Status
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithAuditLogger sets the audit logger for recording health changes.
func WithAuditLogger(logger *audit.Logger) Option {
	return func(m *Monitor) {
		m.auditLog = logger
	}
}

// WithNotify sets a callback run after every check.
func WithNotify(fn func(CheckResult)) Option {
	return func(m *Monitor) {
		m.notify = fn
	}
}

// New creates a new Monitor.
func New(interval time.Duration, project string, check CheckFunc, opts ...Option) *Monitor {
	m := &Monitor{
		interval: interval,
		project:  project,
		check:    check,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run starts the monitoring loop. It blocks until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	logging.Debug("starting health monitor", "interval", m.interval, "project", m.project)

	// Run an immediate check, then loop on interval.
	m.checkOnce(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debug("health monitor stopping")
			return ctx.Err()
		case <-ticker.C:
			m.checkOnce(ctx)
		}
	}
}

// checkOnce runs one check. Only status changes are written to the audit
// log.
func (m *Monitor) checkOnce(ctx context.Context) CheckResult {
	status, result, err := m.check(ctx)
	r := CheckResult{Time: time.Now(), Status: status, Health: result, Err: err}
	if err != nil {
		r.Status = health.StatusUnknown
	}

	r.Changed = r.Status != m.last
	if r.Changed {
		details := string(r.Status)
		if m.last != "" {
			details = fmt.Sprintf("%s -> %s", m.last, r.Status)
		}
		eventType := audit.EventHealth
		if err != nil {
			eventType = audit.EventError
			details += ": " + err.Error()
		}
		if logErr := m.auditLog.LogEvent(eventType, m.project, details); logErr != nil {
			logging.Warn("failed to write audit event", "error", logErr)
		}
		logging.Debug("health changed", "project", m.project, "status", r.Status)
	}
	m.last = r.Status

	if m.notify != nil {
		m.notify(r)
	}
	return r
}
