package stack

import (
	"context"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/rippled-monitor/monitor-ctl/internal/config"
	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/port"
	"github.com/rippled-monitor/monitor-ctl/internal/system"
)

func samplePlan() *Plan {
	return &Plan{
		Project:  "rippled-monitor",
		Services: config.Default().Stack.Services,
		Assignments: []port.Assignment{
			{Service: "grafana", Port: 3000},
			{Service: "victoriametrics", Port: 8430},
			{Service: "vmagent", Port: 8429},
			{Service: "node-exporter", Port: 9101},
		},
		Endpoints: endpoint.Pair{
			HTTP: &endpoint.Endpoint{Kind: endpoint.KindHTTPRPC, Host: "127.0.0.1", Port: 5005},
			WS:   &endpoint.Endpoint{Kind: endpoint.KindWSAdmin, Host: "127.0.0.1", Port: 6006},
		},
		DataPath: "/var/lib/rippled",
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"grafana", "GRAFANA"},
		{"node-exporter", "NODE_EXPORTER"},
		{"vm.agent", "VM_AGENT"},
	}
	for _, tt := range tests {
		if got := EnvKey(tt.in); got != tt.want {
			t.Errorf("EnvKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlan_Env(t *testing.T) {
	env := string(samplePlan().Env())

	for _, want := range []string{
		"COMPOSE_PROJECT_NAME=rippled-monitor\n",
		"VICTORIAMETRICS_PORT=8430\n",
		"NODE_EXPORTER_PORT=9101\n",
		"RIPPLED_WS_URL=ws://127.0.0.1:6006",
		"RIPPLED_DATA_PATH=/var/lib/rippled\n",
	} {
		if !strings.Contains(env, want) {
			t.Errorf(".env missing %q:\n%s", want, env)
		}
	}
}

func TestPlan_EnvWithoutEndpoints(t *testing.T) {
	p := samplePlan()
	p.Endpoints = endpoint.Pair{}
	p.Assignments = nil

	env := string(p.Env())
	if strings.Contains(env, "RIPPLED_RPC_URL") {
		t.Error(".env should omit missing endpoints")
	}
	if !strings.Contains(env, "GRAFANA_PORT=3000\n") {
		t.Error("unassigned services should fall back to their default port")
	}
}

func TestPlan_Override(t *testing.T) {
	data, err := samplePlan().Override()
	if err != nil {
		t.Fatalf("Override failed: %v", err)
	}

	var doc composeOverride
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("override is not valid YAML: %v\n%s", err, data)
	}

	vm, ok := doc.Services["victoriametrics"]
	if !ok {
		t.Fatalf("victoriametrics missing from override:\n%s", data)
	}
	if len(vm.Ports) != 1 || vm.Ports[0] != "127.0.0.1:8430:8428" {
		t.Errorf("victoriametrics ports = %v, want [127.0.0.1:8430:8428]", vm.Ports)
	}
}

func TestWriter_Write(t *testing.T) {
	fs := system.NewMockFS()
	w := NewWriter(fs, "/opt/rippled-monitor")

	if err := w.Write(samplePlan()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if _, ok := fs.GetFile("/opt/rippled-monitor/.env"); !ok {
		t.Error(".env not written")
	}
	if _, ok := fs.GetFile("/opt/rippled-monitor/docker-compose.override.yml"); !ok {
		t.Error("override not written")
	}
}

func TestWriter_WriteError(t *testing.T) {
	fs := system.NewMockFS()
	fs.WriteFileErr = system.ErrMock

	if err := NewWriter(fs, "/opt/rippled-monitor").Write(samplePlan()); err == nil {
		t.Error("expected error")
	}
}

func TestLauncher_Command(t *testing.T) {
	l := NewLauncher(system.NewMockExecutor(), system.NewMockFS(), "/opt/rippled-monitor", "rippled monitor")

	want := "docker compose -p 'rippled monitor' -f docker-compose.yml -f docker-compose.override.yml up -d"
	if got := l.Command(); got != want {
		t.Errorf("Command() = %q, want %q", got, want)
	}
}

func TestLauncher_Up(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddPath("docker")
	fs := system.NewMockFS()
	fs.AddFile("/opt/rippled-monitor/docker-compose.yml", []byte("services: {}\n"), 0644)

	l := NewLauncher(exec, fs, "/opt/rippled-monitor", "rippled-monitor")
	if err := l.Up(context.Background()); err != nil {
		t.Fatalf("Up failed: %v", err)
	}

	cmd, ok := exec.LastCommand()
	if !ok {
		t.Fatal("no command executed")
	}
	if cmd.Name != "docker" || cmd.Dir != "/opt/rippled-monitor" {
		t.Errorf("command = %+v", cmd)
	}
	if strings.Join(cmd.Args, " ") != strings.Join(l.Args(), " ") {
		t.Errorf("args = %v, want %v", cmd.Args, l.Args())
	}
}

func TestLauncher_UpFailures(t *testing.T) {
	t.Run("docker missing", func(t *testing.T) {
		fs := system.NewMockFS()
		fs.AddFile("/opt/s/docker-compose.yml", nil, 0644)
		err := NewLauncher(system.NewMockExecutor(), fs, "/opt/s", "p").Up(context.Background())
		if errors.GetExitCode(err) != errors.ExitContainerFailed {
			t.Errorf("err = %v, want container failure", err)
		}
	})

	t.Run("base file missing", func(t *testing.T) {
		exec := system.NewMockExecutor()
		exec.AddPath("docker")
		err := NewLauncher(exec, system.NewMockFS(), "/opt/s", "p").Up(context.Background())
		if errors.GetExitCode(err) != errors.ExitContainerFailed {
			t.Errorf("err = %v, want container failure", err)
		}
	})

	t.Run("compose fails", func(t *testing.T) {
		exec := system.NewMockExecutor()
		exec.AddPath("docker")
		exec.AddResponse("docker compose", []byte("no such service"), system.ErrMock)
		fs := system.NewMockFS()
		fs.AddFile("/opt/s/docker-compose.yml", nil, 0644)

		err := NewLauncher(exec, fs, "/opt/s", "p").Up(context.Background())
		if errors.GetExitCode(err) != errors.ExitContainerFailed {
			t.Errorf("err = %v, want container failure", err)
		}
		if !strings.Contains(err.Error(), "no such service") {
			t.Errorf("err = %v, should include compose output", err)
		}
	})
}
