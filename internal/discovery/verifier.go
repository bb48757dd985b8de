package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
)

// Verdict is the outcome of one privileged round trip.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictPublic
	VerdictAdmin
)

func (v Verdict) String() string {
	switch v {
	case VerdictAdmin:
		return "admin"
	case VerdictPublic:
		return "public"
	default:
		return "unknown"
	}
}

// Kind maps the verdict to an endpoint kind.
func (v Verdict) Kind() endpoint.Kind {
	switch v {
	case VerdictAdmin:
		return endpoint.KindWSAdmin
	case VerdictPublic:
		return endpoint.KindWSPublic
	default:
		return endpoint.KindWSUnknown
	}
}

// AdminVerifier tells an admin WebSocket endpoint from a public one.
type AdminVerifier interface {
	// Supported reports whether this verifier can probe at all.
	Supported() bool

	// Verify sends one privileged command to ep and classifies the reply.
	Verify(ctx context.Context, ep endpoint.Endpoint) Verdict
}

// Command is one request sent over the WebSocket.
type Command struct {
	ID      int    `json:"id"`
	Command string `json:"command"`
}

// peersCommand needs admin rights on the target.
var peersCommand = Command{ID: 1, Command: "peers"}

// WSVerifier implements AdminVerifier with gorilla/websocket.
type WSVerifier struct {
	dialer  *websocket.Dialer
	timeout time.Duration
}

// NewWSVerifier creates a verifier whose round trip is bounded by timeout.
func NewWSVerifier(timeout time.Duration) *WSVerifier {
	return &WSVerifier{
		dialer:  &websocket.Dialer{HandshakeTimeout: timeout},
		timeout: timeout,
	}
}

func (v *WSVerifier) Supported() bool { return true }

func (v *WSVerifier) Verify(ctx context.Context, ep endpoint.Endpoint) Verdict {
	reply, err := RoundTrip(ctx, v.dialer, ep, peersCommand, v.timeout)
	if err != nil {
		return VerdictUnknown
	}
	return ClassifyReply(reply)
}

// RoundTrip opens a WebSocket to ep, sends cmd and reads one JSON reply.
func RoundTrip(ctx context.Context, dialer *websocket.Dialer, ep endpoint.Endpoint, cmd Command, timeout time.Duration) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, "ws://"+ep.Address()+"/", nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", ep.Address(), err)
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	if err := conn.WriteJSON(cmd); err != nil {
		return nil, fmt.Errorf("send %s: %w", cmd.Command, err)
	}

	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	var reply map[string]any
	if err := conn.ReadJSON(&reply); err != nil {
		return nil, fmt.Errorf("read %s reply: %w", cmd.Command, err)
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return reply, nil
}

// permissionErrors are the error tokens the target returns to a
// non-admin client for a privileged command.
var permissionErrors = map[string]bool{
	"forbidden":    true,
	"noPermission": true,
}

// ClassifyReply reads a peers reply. result.peers means admin; a permission
// error at the top level or under result means public.
func ClassifyReply(reply map[string]any) Verdict {
	if reply == nil {
		return VerdictUnknown
	}
	if isPermissionError(reply["error"]) {
		return VerdictPublic
	}

	result, ok := reply["result"].(map[string]any)
	if !ok {
		return VerdictUnknown
	}
	if _, ok := result["peers"]; ok {
		return VerdictAdmin
	}
	if isPermissionError(result["error"]) {
		return VerdictPublic
	}
	return VerdictUnknown
}

func isPermissionError(v any) bool {
	s, ok := v.(string)
	return ok && permissionErrors[s]
}

// UnsupportedVerifier is used when no privileged probe is possible.
// Classification then falls back to the first candidate with a warning.
type UnsupportedVerifier struct{}

func (UnsupportedVerifier) Supported() bool { return false }

func (UnsupportedVerifier) Verify(context.Context, endpoint.Endpoint) Verdict {
	return VerdictUnknown
}

var (
	_ AdminVerifier = (*WSVerifier)(nil)
	_ AdminVerifier = UnsupportedVerifier{}
)
