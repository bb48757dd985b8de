package discovery

import (
	"context"
	"sort"
	"strings"

	"github.com/rippled-monitor/monitor-ctl/internal/config"
	"github.com/rippled-monitor/monitor-ctl/internal/deploy"
	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/logging"
	"github.com/rippled-monitor/monitor-ctl/internal/port"
)

// Result is what one classification run found.
type Result struct {
	HTTPRPC      *endpoint.Endpoint  `json:"httpRpc,omitempty"`
	WSCandidates []endpoint.Endpoint `json:"wsCandidates,omitempty"`
	Operative    *endpoint.Endpoint  `json:"operative,omitempty"`
	Warnings     errors.Warnings     `json:"warnings,omitempty"`
}

// Empty reports whether neither pass matched anything.
func (r *Result) Empty() bool {
	return r.HTTPRPC == nil && r.Operative == nil
}

// Pair returns the HTTP RPC and operative WebSocket endpoints.
func (r *Result) Pair() endpoint.Pair {
	return endpoint.Pair{HTTP: r.HTTPRPC, WS: r.Operative}
}

// Classifier runs the HTTP and WebSocket passes.
type Classifier struct {
	rpc      RPCClient
	verifier AdminVerifier
	prober   port.Prober
	host     string
	target   config.Target
}

// NewClassifier creates a classifier for the configured target.
// A nil verifier is treated as unsupported.
func NewClassifier(cfg *config.Config, rpc RPCClient, verifier AdminVerifier, prober port.Prober) *Classifier {
	if verifier == nil {
		verifier = UnsupportedVerifier{}
	}
	return &Classifier{
		rpc:      rpc,
		verifier: verifier,
		prober:   prober,
		host:     cfg.Discovery.Host,
		target:   cfg.Target,
	}
}

// Discover enumerates the listening ports minus deny and classifies them.
func (c *Classifier) Discover(ctx context.Context, deny, excluding map[int]bool, desc *deploy.Descriptor) (*Result, error) {
	candidates, err := port.ListListeningPorts(ctx, c.prober, deny)
	if err != nil {
		return nil, errors.DiscoveryFailed("failed to list listening ports", err)
	}
	logging.Debug("discovery candidates", "ports", candidates)
	return c.Classify(ctx, candidates, excluding, desc)
}

// Classify finds the HTTP RPC endpoint and the operative WebSocket endpoint
// among candidates. Ports in excluding are never probed. The only error is
// cancellation; every other failure degrades into a warning or an empty
// Result.
func (c *Classifier) Classify(ctx context.Context, candidates []int, excluding map[int]bool, desc *deploy.Descriptor) (*Result, error) {
	result := &Result{}
	claimed := make(map[int]bool, len(excluding)+1)
	for p := range excluding {
		claimed[p] = true
	}

	remaining := make([]int, 0, len(candidates))
	for _, p := range candidates {
		if port.Valid(p) && !claimed[p] {
			remaining = append(remaining, p)
		}
	}

	// A port whose HTTP probe failed outright is not probed again this pass.
	unreachable := make(map[int]bool)

	// HTTP pass.
	for i, p := range remaining {
		if ctx.Err() != nil {
			return result, errors.Cancelled("discovery")
		}
		ep := c.endpoint(endpoint.KindHTTPRPC, p)
		ok, err := c.rpc.ServerInfo(ctx, ep)
		if err != nil {
			logging.Debug("server_info probe failed", "port", p, "error", err)
			unreachable[p] = true
			continue
		}
		if ok {
			ep.Verified = true
			result.HTTPRPC = &ep
			claimed[p] = true
			remaining = append(remaining[:i], remaining[i+1:]...)
			logging.Debug("http rpc endpoint found", "port", p)
			break
		}
	}

	// WebSocket pass.
	wsPorts, err := c.wsCandidates(ctx, remaining, claimed, unreachable, desc)
	if err != nil {
		return result, err
	}
	if len(wsPorts) == 0 {
		logging.Debug("no websocket candidates")
		return result, nil
	}

	if !c.verifier.Supported() {
		for _, p := range wsPorts {
			result.WSCandidates = append(result.WSCandidates, c.endpoint(endpoint.KindWSUnknown, p))
		}
		op := result.WSCandidates[0]
		result.Operative = &op
		result.Warnings.Addf(errors.KindUnsupported,
			"admin verification unavailable, using websocket port %d unverified", op.Port)
		return result, nil
	}

	for _, p := range wsPorts {
		if ctx.Err() != nil {
			return result, errors.Cancelled("discovery")
		}
		ep := c.endpoint(endpoint.KindWSUnknown, p)
		verdict := c.verifier.Verify(ctx, ep)
		ep.Kind = verdict.Kind()
		ep.Verified = verdict == VerdictAdmin
		logging.Debug("websocket candidate classified", "port", p, "verdict", verdict)
		result.WSCandidates = append(result.WSCandidates, ep)
	}

	for i := range result.WSCandidates {
		if result.WSCandidates[i].Kind == endpoint.KindWSAdmin {
			op := result.WSCandidates[i]
			result.Operative = &op
			return result, nil
		}
	}

	op := result.WSCandidates[0]
	result.Operative = &op
	result.Warnings.Addf(errors.KindAmbiguous,
		"no admin websocket among %d candidates, using port %d (%s)", len(wsPorts), op.Port, op.Kind)
	return result, nil
}

// wsCandidates merges the three WebSocket signal sources, ascending.
// Unreachable ports are left out of every source.
func (c *Classifier) wsCandidates(ctx context.Context, remaining []int, claimed, unreachable map[int]bool, desc *deploy.Descriptor) ([]int, error) {
	set := make(map[int]bool)
	eligible := func(p int) bool {
		return port.Valid(p) && !claimed[p] && !unreachable[p] && p != c.target.PeerPort
	}

	brand := strings.ToLower(c.target.Brand)
	for _, p := range remaining {
		if ctx.Err() != nil {
			return nil, errors.Cancelled("discovery")
		}
		if !eligible(p) || brand == "" {
			continue
		}
		banner, err := c.rpc.Banner(ctx, c.endpoint(endpoint.KindWSUnknown, p))
		if err != nil {
			logging.Debug("banner probe failed", "port", p, "error", err)
			continue
		}
		if strings.Contains(strings.ToLower(banner), brand) {
			set[p] = true
		}
	}

	for _, p := range c.target.AdminPorts {
		if eligible(p) && c.prober.IsBound(ctx, p) {
			set[p] = true
		}
	}

	if desc.Containerized() {
		for _, p := range desc.HostPorts {
			if eligible(p) {
				set[p] = true
			}
		}
	}

	out := make([]int, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Ints(out)
	return out, nil
}

func (c *Classifier) endpoint(kind endpoint.Kind, p int) endpoint.Endpoint {
	return endpoint.Endpoint{Kind: kind, Host: c.host, Port: p}
}
