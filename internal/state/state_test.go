package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rippled-monitor/monitor-ctl/internal/config"
	"github.com/rippled-monitor/monitor-ctl/internal/deploy"
	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/port"
	"github.com/rippled-monitor/monitor-ctl/internal/system"
)

func sampleState() *State {
	return &State{
		Project: "rippled-monitor",
		Descriptor: &deploy.Descriptor{
			Mode:     deploy.ModeNative,
			DataPath: "/var/lib/rippled",
		},
		Endpoints: endpoint.Pair{
			HTTP: &endpoint.Endpoint{Kind: endpoint.KindHTTPRPC, Host: "127.0.0.1", Port: 5005, Verified: true},
			WS:   &endpoint.Endpoint{Kind: endpoint.KindWSAdmin, Host: "127.0.0.1", Port: 6006, Verified: true},
		},
		Assignments: []port.Assignment{
			{Service: "grafana", Port: 3001},
			{Service: "victoriametrics", Port: 8428},
		},
	}
}

func TestStore_SaveLoad(t *testing.T) {
	fs := system.NewMockFS()
	st := NewStore(fs, "/var/lib/rippled-monitor")

	require.NoError(t, st.Save(sampleState()))

	_, ok := fs.GetFile("/var/lib/rippled-monitor/rippled-monitor.json.tmp")
	assert.False(t, ok, "temporary file should be renamed away")

	got, err := st.Load("rippled-monitor")
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, got.Version)
	assert.False(t, got.SavedAt.IsZero())
	assert.Equal(t, deploy.ModeNative, got.Descriptor.Mode)
	assert.Equal(t, 6006, got.Endpoints.WS.Port)
	assert.Equal(t, 3001, got.PortOf("grafana"))
}

func TestStore_LoadMissing(t *testing.T) {
	st := NewStore(system.NewMockFS(), "/var/lib/rippled-monitor")

	_, err := st.Load("rippled-monitor")
	assert.ErrorIs(t, err, ErrNoState)
}

func TestStore_LoadCorrupt(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddFile("/state/rippled-monitor.json", []byte("{not json"), 0644)

	_, err := NewStore(fs, "/state").Load("rippled-monitor")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoState)
}

func TestStore_LoadNewerVersion(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddFile("/state/rippled-monitor.json", []byte(`{"version": 99}`), 0644)

	_, err := NewStore(fs, "/state").Load("rippled-monitor")
	assert.Error(t, err)
}

func TestStore_SaveRenameFails(t *testing.T) {
	fs := system.NewMockFS()
	fs.RenameErr = system.ErrMock
	st := NewStore(fs, "/state")

	err := st.Save(sampleState())
	require.Error(t, err)

	_, err = st.Load("rippled-monitor")
	assert.ErrorIs(t, err, ErrNoState, "a failed save must not leave a partial state file")
}

func TestStore_SavePreservesSavedAt(t *testing.T) {
	st := NewStore(system.NewMockFS(), "/state")
	s := sampleState()
	s.SavedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, st.Save(s))
	got, err := st.Load("rippled-monitor")
	require.NoError(t, err)
	assert.True(t, got.SavedAt.Equal(s.SavedAt))
}

func TestSafePath(t *testing.T) {
	tests := []struct {
		name    string
		project string
		wantErr bool
	}{
		{"valid", "rippled-monitor", false},
		{"traversal", "../etc/passwd", true},
		{"absolute", "/etc/passwd", true},
		{"separator", "a/b", true},
		{"empty", "", true},
		{"uppercase", "Monitor", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := safePath("/state", tt.project, ".json")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestState_Requests(t *testing.T) {
	services := config.Default().Stack.Services

	var none *State
	reqs := none.Requests(services)
	require.Len(t, reqs, len(services))
	assert.Equal(t, port.Request{Service: "grafana", DefaultPort: 3000}, reqs[0])

	reqs = sampleState().Requests(services)
	assert.Equal(t, port.Request{Service: "grafana", DefaultPort: 3001}, reqs[0], "stored port becomes the default")
	assert.Equal(t, port.Request{Service: "vmagent", DefaultPort: 8429}, reqs[2], "services without a stored port keep their default")
}

func TestState_EndpointList(t *testing.T) {
	var none *State
	assert.Empty(t, none.EndpointList())

	eps := sampleState().EndpointList()
	require.Len(t, eps, 2)
	assert.Equal(t, endpoint.KindHTTPRPC, eps[0].Kind)
	assert.Equal(t, endpoint.KindWSAdmin, eps[1].Kind)
}
