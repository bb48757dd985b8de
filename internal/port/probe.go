package port

import (
	"context"
	"sort"

	gnet "github.com/shirou/gopsutil/v4/net"

	"github.com/rippled-monitor/monitor-ctl/internal/logging"
)

// Prober reports the state of the local listening-socket table.
type Prober interface {
	// IsBound reports whether a TCP socket is listening on port.
	IsBound(ctx context.Context, port int) bool

	// Listening returns every listening TCP port, deduplicated and ascending.
	Listening(ctx context.Context) ([]int, error)
}

// SystemProber implements Prober with the gopsutil connection table.
type SystemProber struct {
	// connections is swapped out in tests.
	connections func(ctx context.Context, kind string) ([]gnet.ConnectionStat, error)
}

// NewSystemProber creates a prober backed by the OS socket table.
func NewSystemProber() *SystemProber {
	return &SystemProber{connections: gnet.ConnectionsWithContext}
}

// Listening returns the listening TCP ports (IPv4 and IPv6).
func (p *SystemProber) Listening(ctx context.Context) ([]int, error) {
	conns, err := p.connections(ctx, "tcp")
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	for _, c := range conns {
		if c.Status != "LISTEN" || c.Laddr.Port == 0 {
			continue
		}
		seen[int(c.Laddr.Port)] = true
	}

	return sortedPorts(seen), nil
}

// IsBound reports whether port is listening. Fails closed: if the socket
// table cannot be read, the port is reported unbound.
func (p *SystemProber) IsBound(ctx context.Context, port int) bool {
	ports, err := p.Listening(ctx)
	if err != nil {
		logging.Debug("socket table unavailable, treating port as unbound", "port", port, "error", err)
		return false
	}
	for _, lp := range ports {
		if lp == port {
			return true
		}
	}
	return false
}

// ListListeningPorts returns the listening ports minus the deny-list.
func ListListeningPorts(ctx context.Context, p Prober, deny map[int]bool) ([]int, error) {
	ports, err := p.Listening(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(ports))
	for _, lp := range ports {
		if deny[lp] {
			continue
		}
		seen[lp] = true
	}

	return sortedPorts(seen), nil
}

func sortedPorts(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// StaticProber is a Prober over a fixed set of bound ports, for tests and
// dry runs.
type StaticProber struct {
	Bound map[int]bool
	Err   error
}

// NewStaticProber creates a StaticProber with the given ports bound.
func NewStaticProber(bound ...int) *StaticProber {
	p := &StaticProber{Bound: make(map[int]bool)}
	for _, b := range bound {
		p.Bound[b] = true
	}
	return p
}

func (p *StaticProber) IsBound(ctx context.Context, port int) bool {
	if p.Err != nil {
		return false
	}
	return p.Bound[port]
}

func (p *StaticProber) Listening(ctx context.Context) ([]int, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return sortedPorts(p.Bound), nil
}

var (
	_ Prober = (*SystemProber)(nil)
	_ Prober = (*StaticProber)(nil)
)
