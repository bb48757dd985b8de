package health

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rippled-monitor/monitor-ctl/internal/deploy"
	"github.com/rippled-monitor/monitor-ctl/internal/discovery"
	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/logging"
	"github.com/rippled-monitor/monitor-ctl/internal/runtime"
)

// Status represents the overall health of the stored endpoints
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusStopped   Status = "stopped"
	StatusUnknown   Status = "unknown"
)

// pingCommand is accepted on both admin and public websocket ports.
var pingCommand = discovery.Command{ID: 1, Command: "ping"}

// Checker probes endpoints for connectivity.
type Checker struct {
	rpc     discovery.RPCClient
	dialer  *websocket.Dialer
	timeout time.Duration
}

// NewChecker creates a checker. Each websocket round trip is bounded by
// wsTimeout; HTTP probes use the rpc client's own timeout.
func NewChecker(rpc discovery.RPCClient, wsTimeout time.Duration) *Checker {
	return &Checker{
		rpc:     rpc,
		dialer:  &websocket.Dialer{HandshakeTimeout: wsTimeout},
		timeout: wsTimeout,
	}
}

// Verify probes ep once: server_info over HTTP, or ping over WebSocket.
// On success the returned endpoint is marked verified.
func (c *Checker) Verify(ctx context.Context, ep endpoint.Endpoint) (endpoint.Endpoint, error) {
	switch {
	case ep.Kind == endpoint.KindHTTPRPC:
		ok, err := c.rpc.ServerInfo(ctx, ep)
		if err != nil {
			return ep, err
		}
		if !ok {
			return ep, fmt.Errorf("%s: server_info returned no result", ep.Address())
		}

	case ep.Kind.IsWebSocket():
		reply, err := discovery.RoundTrip(ctx, c.dialer, ep, pingCommand, c.timeout)
		if err != nil {
			return ep, err
		}
		if _, ok := reply["result"]; !ok {
			return ep, fmt.Errorf("%s: ping returned no result", ep.Address())
		}

	default:
		return ep, fmt.Errorf("unknown endpoint kind %q", ep.Kind)
	}

	ep.Verified = true
	return ep, nil
}

// Reverify probes every endpoint. Endpoints that answer are returned
// verified; the rest are discarded with an unreachable warning.
func (c *Checker) Reverify(ctx context.Context, eps []endpoint.Endpoint) ([]endpoint.Endpoint, errors.Warnings) {
	var kept []endpoint.Endpoint
	var warnings errors.Warnings

	for _, ep := range eps {
		verified, err := c.Verify(ctx, ep)
		if err != nil {
			logging.Debug("endpoint failed verification", "endpoint", ep.String(), "error", err)
			warnings.Addf(errors.KindUnreachable, "discarding %s: %v", ep.Address(), err)
			continue
		}
		kept = append(kept, verified)
	}

	return kept, warnings
}

// EndpointResult is the outcome of checking one endpoint.
type EndpointResult struct {
	Endpoint endpoint.Endpoint `json:"endpoint"`
	Healthy  bool              `json:"healthy"`
	Latency  time.Duration     `json:"latency"`
	Error    string            `json:"error,omitempty"`
}

// CheckResult contains the results of health checks
type CheckResult struct {
	Container ContainerState   `json:"container,omitempty"`
	Endpoints []EndpointResult `json:"endpoints"`
	Warnings  errors.Warnings  `json:"warnings,omitempty"`
}

// ContainerState is what the runtime said about the target's container.
// It is empty for a native target.
type ContainerState string

const (
	ContainerRunning ContainerState = "running"
	ContainerStopped ContainerState = "stopped"
	ContainerUnknown ContainerState = "unknown"
)

// Check probes the endpoints and, for a containerized target, whether the
// container is still running. rt may be nil, in which case the container
// state is unknown.
func (c *Checker) Check(ctx context.Context, desc *deploy.Descriptor, eps []endpoint.Endpoint, rt runtime.Runtime) *CheckResult {
	result := &CheckResult{}

	if desc.Containerized() {
		result.Container = ContainerUnknown
		if rt == nil {
			result.Warnings.Addf(errors.KindUnreachable,
				"no container runtime, cannot tell whether container %s is running", desc.ContainerName)
		} else if info, err := rt.Inspect(ctx, desc.ContainerID); err != nil {
			logging.Debug("container inspect failed", "id", desc.ContainerID, "error", err)
			result.Warnings.Addf(errors.KindUnreachable, "cannot inspect container %s: %v", desc.ContainerName, err)
		} else if info.Running {
			result.Container = ContainerRunning
		} else {
			result.Container = ContainerStopped
		}
	}

	for _, ep := range eps {
		start := time.Now()
		_, err := c.Verify(ctx, ep)
		r := EndpointResult{Endpoint: ep, Healthy: err == nil, Latency: time.Since(start)}
		if err != nil {
			r.Error = err.Error()
		}
		result.Endpoints = append(result.Endpoints, r)
	}

	return result
}

// Summary returns the overall status for a check result. A container whose
// state could not be read is judged by its endpoints alone.
func Summary(desc *deploy.Descriptor, r *CheckResult) Status {
	if desc.Containerized() && r.Container == ContainerStopped {
		return StatusStopped
	}
	if len(r.Endpoints) == 0 {
		return StatusUnknown
	}

	healthy := 0
	for _, e := range r.Endpoints {
		if e.Healthy {
			healthy++
		}
	}

	switch healthy {
	case len(r.Endpoints):
		return StatusHealthy
	case 0:
		return StatusUnhealthy
	default:
		return StatusDegraded
	}
}

// FormatAge renders the time since t in a short human-readable form.
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return formatDuration(time.Since(t))
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	} else if d < 24*time.Hour {
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}
