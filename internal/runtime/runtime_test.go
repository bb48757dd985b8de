package runtime

import (
	"context"
	"testing"

	"github.com/rippled-monitor/monitor-ctl/internal/system"
)

func TestFindByName(t *testing.T) {
	tests := []struct {
		name       string
		containers []*ContainerInfo
		target     string
		wantID     string
	}{
		{
			name:       "exact match case-insensitive",
			containers: []*ContainerInfo{{ID: "1", Name: "RIPPLED", Running: true}},
			target:     "rippled",
			wantID:     "1",
		},
		{
			name: "exact wins over substring",
			containers: []*ContainerInfo{
				{ID: "1", Name: "rippled-validator", Running: true},
				{ID: "2", Name: "rippled", Running: true},
			},
			target: "rippled",
			wantID: "2",
		},
		{
			name: "smallest substring match",
			containers: []*ContainerInfo{
				{ID: "1", Name: "xrpl-rippled", Running: true},
				{ID: "2", Name: "my-rippled", Running: true},
			},
			target: "rippled",
			wantID: "2",
		},
		{
			name: "shortest substring beats lexical order",
			containers: []*ContainerInfo{
				{ID: "1", Name: "a-rippled-validator", Running: true},
				{ID: "2", Name: "z-rippled", Running: true},
			},
			target: "rippled",
			wantID: "2",
		},
		{
			name:       "stopped containers ignored",
			containers: []*ContainerInfo{{ID: "1", Name: "rippled", Running: false}},
			target:     "rippled",
			wantID:     "",
		},
		{
			name:       "no match",
			containers: []*ContainerInfo{{ID: "1", Name: "grafana", Running: true}},
			target:     "rippled",
			wantID:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewMockRuntime()
			for _, c := range tt.containers {
				rt.AddContainer(c)
			}
			got, err := FindByName(context.Background(), rt, tt.target)
			if err != nil {
				t.Fatalf("FindByName failed: %v", err)
			}
			gotID := ""
			if got != nil {
				gotID = got.ID
			}
			if gotID != tt.wantID {
				t.Errorf("FindByName = %q, want %q", gotID, tt.wantID)
			}
		})
	}
}

func TestFindByName_Error(t *testing.T) {
	rt := NewMockRuntime()
	rt.SetError("List", system.ErrMock)

	if _, err := FindByName(context.Background(), rt, "rippled"); err == nil {
		t.Error("expected error")
	}
}

func TestPublishedPorts(t *testing.T) {
	c := &ContainerInfo{Ports: []PortMapping{
		{Private: 6006, Public: 6006, Protocol: "tcp"},
		{Private: 6006, Public: 6006, Protocol: "tcp", HostIP: "::"},
		{Private: 51235, Public: 51235, Protocol: "udp"},
		{Private: 5005, Public: 0, Protocol: "tcp"},
		{Private: 80, Public: 8080},
	}}

	got := c.PublishedPorts()
	if len(got) != 2 || got[0] != 6006 || got[1] != 8080 {
		t.Errorf("PublishedPorts() = %v, want [6006 8080]", got)
	}
}

func TestProjectPorts(t *testing.T) {
	rt := NewMockRuntime()
	rt.AddContainer(&ContainerInfo{
		ID: "g", Name: "rippled-monitor-grafana-1", Running: true,
		Labels: map[string]string{ComposeProjectLabel: "rippled-monitor"},
		Ports:  []PortMapping{{Private: 3000, Public: 3001, Protocol: "tcp"}},
	})
	rt.AddContainer(&ContainerInfo{
		ID: "o", Name: "other-web-1", Running: true,
		Labels: map[string]string{ComposeProjectLabel: "other"},
		Ports:  []PortMapping{{Private: 80, Public: 3000, Protocol: "tcp"}},
	})
	rt.AddContainer(&ContainerInfo{
		ID: "s", Name: "rippled-monitor-vmagent-1", Running: false,
		Labels: map[string]string{ComposeProjectLabel: "rippled-monitor"},
		Ports:  []PortMapping{{Private: 8429, Public: 8429, Protocol: "tcp"}},
	})

	got, err := ProjectPorts(context.Background(), rt, "rippled-monitor")
	if err != nil {
		t.Fatalf("ProjectPorts failed: %v", err)
	}
	if len(got) != 1 || !got[3001] {
		t.Errorf("ProjectPorts = %v, want only 3001", got)
	}
}

func TestMockRuntime_Inspect(t *testing.T) {
	rt := NewMockRuntime()
	rt.AddContainer(&ContainerInfo{ID: "abc", Name: "rippled", Running: true})

	c, err := rt.Inspect(context.Background(), "rippled")
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if c.ID != "abc" {
		t.Errorf("ID = %q, want abc", c.ID)
	}
	if len(rt.GetCallsFor("Inspect")) != 1 {
		t.Error("Inspect call not recorded")
	}

	if _, err := rt.Inspect(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing container")
	}
}
