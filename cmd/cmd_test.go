package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rippled-monitor/monitor-ctl/internal/app"
	"github.com/rippled-monitor/monitor-ctl/internal/audit"
	"github.com/rippled-monitor/monitor-ctl/internal/config"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/stack"
	"github.com/rippled-monitor/monitor-ctl/internal/testutil"
)

func setupTestEnv(t *testing.T) *testutil.TestEnv {
	t.Helper()

	env := testutil.NewTestEnv(t)

	origNewApp, origInteractive := newApp, interactive
	newApp = func(cfg *config.Config) *app.App {
		cfg.StateDir = testutil.StateDir
		cfg.Stack.Dir = testutil.StackDir
		return app.New(
			app.WithConfig(cfg),
			app.WithFileSystem(env.FS),
			app.WithExecutor(env.Exec),
			app.WithRuntime(env.Runtime),
			app.WithProcesses(env.Processes),
			app.WithProber(env.Prober),
			app.WithRPC(env.RPC),
			app.WithVerifier(env.Verifier),
			app.WithAudit(audit.NewLogger(env.TmpDir)),
		)
	}
	interactive = func() bool { return false }

	t.Cleanup(func() {
		newApp, interactive = origNewApp, origInteractive
		app.ResetDefault()
	})

	return env
}

func executeCommand(args ...string) (string, string, error) {
	// Reset flag values before each test
	verbose = false
	jsonOutput = false
	configPath = filepath.Join(os.TempDir(), "monitor-ctl-missing", "config.toml")
	portsYes = false
	installYes = false
	installHTTP = ""
	installWS = ""
	installLaunch = true
	watchInterval = 30 * time.Second
	eventsLines = 20
	eventsTypes = nil

	cmd := rootCmd
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	// Reset args for next test
	cmd.SetArgs(nil)
	cmd.SetOut(nil)
	cmd.SetErr(nil)

	return stdout.String(), stderr.String(), err
}

func TestDiscover(t *testing.T) {
	setupTestEnv(t)

	stdout, _, err := executeCommand("discover")
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}

	for _, want := range []string{
		"Mode: containerized",
		"Container: rippled (0123456789ab)",
		"HTTP RPC: http-rpc 127.0.0.1:5005",
		"WebSocket: ws-admin 127.0.0.1:6006",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestDiscover_JSON(t *testing.T) {
	setupTestEnv(t)

	stdout, _, err := executeCommand("discover", "--json")
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}

	var got discoverOutput
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if got.Discovery.HTTPRPC == nil || got.Discovery.HTTPRPC.Port != 5005 {
		t.Errorf("http = %+v", got.Discovery.HTTPRPC)
	}
}

func TestDiscover_NotFound(t *testing.T) {
	env := setupTestEnv(t)
	env.Missing()

	_, _, err := executeCommand("discover")
	if errors.GetExitCode(err) != errors.ExitTargetNotFound {
		t.Errorf("exit code = %d, want %d (err %v)", errors.GetExitCode(err), errors.ExitTargetNotFound, err)
	}
}

func TestPorts(t *testing.T) {
	setupTestEnv(t)

	stdout, _, err := executeCommand("ports", "--yes")
	if err != nil {
		t.Fatalf("ports failed: %v", err)
	}
	if !strings.Contains(stdout, "grafana") || !strings.Contains(stdout, "3001") {
		t.Errorf("output = %s", stdout)
	}
}

func TestInstall(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := executeCommand("install", "--yes", "--launch=false")
	if err != nil {
		t.Fatalf("install failed: %v", err)
	}
	if !strings.Contains(stdout, "grafana") {
		t.Errorf("review not printed:\n%s", stdout)
	}

	data, ok := env.FS.GetFile("/stack/" + stack.EnvFile)
	if !ok {
		t.Fatal(".env not written")
	}
	if !strings.Contains(string(data), "RIPPLED_WS_URL=ws://127.0.0.1:6006") {
		t.Errorf(".env = %s", data)
	}
}

func TestInstall_PartialEndpointFlags(t *testing.T) {
	setupTestEnv(t)

	_, _, err := executeCommand("install", "--yes", "--http", "5005")
	if err == nil || !strings.Contains(err.Error(), "together") {
		t.Errorf("err = %v, want flag pairing error", err)
	}
}

func TestStatus_NoState(t *testing.T) {
	setupTestEnv(t)

	if _, _, err := executeCommand("status"); err == nil {
		t.Error("status without saved state should fail")
	}
}

func TestStatus_AfterInstall(t *testing.T) {
	setupTestEnv(t)

	if _, _, err := executeCommand("install", "--yes", "--launch=false"); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	stdout, _, err := executeCommand("status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	for _, want := range []string{"Project: rippled-monitor", "grafana: 3001", "Container: ✓"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestRuntime(t *testing.T) {
	setupTestEnv(t)

	stdout, _, err := executeCommand("runtime")
	if err != nil {
		t.Fatalf("runtime failed: %v", err)
	}
	if !strings.Contains(stdout, "Active runtime: mock") || !strings.Contains(stdout, "rippled") {
		t.Errorf("output = %s", stdout)
	}
}

func TestConfigError(t *testing.T) {
	setupTestEnv(t)

	bad := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(bad, []byte("[target\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := executeCommand("discover", "--config", bad)
	if errors.GetExitCode(err) != errors.ExitConfigError {
		t.Errorf("exit code = %d, want %d", errors.GetExitCode(err), errors.ExitConfigError)
	}
}

func TestParsePair(t *testing.T) {
	tests := []struct {
		name     string
		http, ws string
		complete bool
		wantErr  bool
	}{
		{"neither", "", "", false, false},
		{"both", "10.0.0.1:5005", "6006", true, false},
		{"http only", "5005", "", false, true},
		{"bad ws", "5005", "x:y", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := parsePair(tt.http, tt.ws)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if pair.Complete() != tt.complete {
				t.Errorf("Complete() = %v, want %v", pair.Complete(), tt.complete)
			}
		})
	}
}

func TestEvents_AfterInstall(t *testing.T) {
	setupTestEnv(t)

	if _, _, err := executeCommand("install", "--yes", "--launch=false"); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	stdout, _, err := executeCommand("events")
	if err != nil {
		t.Fatalf("events failed: %v", err)
	}
	if !strings.Contains(stdout, "install") || !strings.Contains(stdout, "grafana=3001") {
		t.Errorf("output = %s", stdout)
	}
}

func TestWatch_InvalidInterval(t *testing.T) {
	setupTestEnv(t)

	_, _, err := executeCommand("watch", "--interval", "0s")
	if err == nil || !strings.Contains(err.Error(), "interval") {
		t.Errorf("err = %v, want interval error", err)
	}
}

func TestEvents_TypeFilter(t *testing.T) {
	setupTestEnv(t)

	if _, _, err := executeCommand("install", "--yes", "--launch=false"); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	stdout, _, err := executeCommand("events", "--type", "health")
	if err != nil {
		t.Fatalf("events failed: %v", err)
	}
	if strings.Contains(stdout, "grafana=3001") {
		t.Errorf("install event not filtered out:\n%s", stdout)
	}

	if _, _, err := executeCommand("events", "--type", "bogus"); err == nil {
		t.Error("unknown event type should fail")
	}
}
