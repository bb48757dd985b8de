package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
)

// maxBody caps how much of a probe response is read.
const maxBody = 64 << 10

// serverInfoRequest is the JSON-RPC body used to recognise the RPC port.
var serverInfoRequest = []byte(`{"method":"server_info","params":[{}]}`)

// RPCClient probes candidate ports over plain HTTP.
type RPCClient interface {
	// ServerInfo POSTs server_info and reports whether the reply carries a
	// top-level "result" key.
	ServerInfo(ctx context.Context, ep endpoint.Endpoint) (bool, error)

	// Banner GETs "/" and returns the response headers and body as text.
	Banner(ctx context.Context, ep endpoint.Endpoint) (string, error)
}

// HTTPClient implements RPCClient with net/http.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPClient creates a client whose every request is bounded by timeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout: timeout,
	}
}

func (c *HTTPClient) ServerInfo(ctx context.Context, ep endpoint.Endpoint) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, httpURL(ep), bytes.NewReader(serverInfoRequest))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return false, err
	}

	return HasResult(body), nil
}

func (c *HTTPClient) Banner(ctx context.Context, ep endpoint.Endpoint) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, httpURL(ep), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for k, vs := range resp.Header {
		for _, v := range vs {
			fmt.Fprintf(&sb, "%s: %s\n", k, v)
		}
	}
	sb.WriteString("\n")
	sb.Write(body)
	return sb.String(), nil
}

// HasResult reports whether body is a JSON object with a top-level "result".
func HasResult(body []byte) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return false
	}
	_, ok := obj["result"]
	return ok
}

func httpURL(ep endpoint.Endpoint) string {
	return "http://" + ep.Address() + "/"
}

var _ RPCClient = (*HTTPClient)(nil)
