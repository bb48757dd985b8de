package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
)

func endpointFor(t *testing.T, srv *httptest.Server, kind endpoint.Kind) endpoint.Endpoint {
	t.Helper()
	ep, err := endpoint.Parse(kind, strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	return ep
}

func TestHTTPClient_ServerInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if r.Method != http.MethodPost || req.Method != "server_info" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"result":{"info":{"build_version":"2.3.0"},"status":"success"}}`))
	}))
	defer srv.Close()

	ok, err := NewHTTPClient(2*time.Second).ServerInfo(context.Background(), endpointFor(t, srv, endpoint.KindHTTPRPC))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHTTPClient_ServerInfoNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	ok, err := NewHTTPClient(2*time.Second).ServerInfo(context.Background(), endpointFor(t, srv, endpoint.KindHTTPRPC))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHTTPClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPClient(50*time.Millisecond).ServerInfo(context.Background(), endpointFor(t, srv, endpoint.KindHTTPRPC))
	assert.Error(t, err)
}

func TestHTTPClient_Banner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "rippled-2.3.0")
		_, _ = w.Write([]byte("<html>hello</html>"))
	}))
	defer srv.Close()

	banner, err := NewHTTPClient(2*time.Second).Banner(context.Background(), endpointFor(t, srv, endpoint.KindWSUnknown))
	require.NoError(t, err)
	assert.Contains(t, banner, "rippled-2.3.0")
	assert.Contains(t, banner, "hello")
}

func TestHasResult(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{"result":{}}`, true},
		{`{"result":null}`, true},
		{`{"error":"unknownCmd"}`, false},
		{`[{"result":{}}]`, false},
		{`not json`, false},
		{``, false},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, tt.want, HasResult([]byte(tt.body)))
		})
	}
}
