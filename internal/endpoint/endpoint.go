// Package endpoint defines the service endpoints discovered on the validator.
package endpoint

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Kind identifies what an endpoint was classified as.
type Kind string

const (
	KindHTTPRPC   Kind = "http-rpc"
	KindWSAdmin   Kind = "ws-admin"
	KindWSPublic  Kind = "ws-public"
	KindWSUnknown Kind = "ws-unknown" // privileged probe unreachable or malformed
)

// IsWebSocket reports whether the kind is one of the websocket kinds.
func (k Kind) IsWebSocket() bool {
	return k == KindWSAdmin || k == KindWSPublic || k == KindWSUnknown
}

// Endpoint is one classified listener on the target service.
// Verified starts false and flips after a successful connectivity probe.
type Endpoint struct {
	Kind     Kind   `json:"kind"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Verified bool   `json:"verified"`
}

// Address returns host:port.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// URL returns the endpoint URL with the scheme matching its kind.
func (e Endpoint) URL() string {
	if e.Kind.IsWebSocket() {
		return "ws://" + e.Address()
	}
	return "http://" + e.Address()
}

func (e Endpoint) String() string {
	state := "tentative"
	if e.Verified {
		state = "verified"
	}
	return fmt.Sprintf("%s %s (%s)", e.Kind, e.Address(), state)
}

// Pair is the resolved endpoint pair handed to the stack.
type Pair struct {
	HTTP *Endpoint `json:"http,omitempty"`
	WS   *Endpoint `json:"ws,omitempty"`
}

// Complete reports whether both endpoints are set.
func (p Pair) Complete() bool {
	return p.HTTP != nil && p.WS != nil
}

// Parse parses "host:port", a bare port, or an http(s)/ws(s) URL into an
// endpoint of the given kind. A bare port or an empty host means 127.0.0.1.
// URLs must name the port explicitly.
func Parse(kind Kind, s string) (Endpoint, error) {
	hostport := s
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return Endpoint{}, fmt.Errorf("invalid URL %q: %w", s, err)
		}
		switch u.Scheme {
		case "http", "https", "ws", "wss":
		default:
			return Endpoint{}, fmt.Errorf("unsupported scheme %q in %q", u.Scheme, s)
		}
		if u.Port() == "" {
			return Endpoint{}, fmt.Errorf("missing port in %q", s)
		}
		hostport = net.JoinHostPort(u.Hostname(), u.Port())
	}

	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		host, portStr = "127.0.0.1", hostport
	}
	if host == "" {
		host = "127.0.0.1"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid port in %q", s)
	}
	if port < 1 || port > 65535 {
		return Endpoint{}, fmt.Errorf("port out of range in %q", s)
	}
	return Endpoint{Kind: kind, Host: host, Port: port}, nil
}
