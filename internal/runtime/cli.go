package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rippled-monitor/monitor-ctl/internal/logging"
	"github.com/rippled-monitor/monitor-ctl/internal/system"
)

// CLIRuntime reads container state by shelling out to podman or docker.
type CLIRuntime struct {
	// Command is the container command to use (docker or podman)
	Command string

	exec system.CommandExecutor
}

// NewCLIRuntime creates a runtime for the first of podman or docker found
// on PATH.
func NewCLIRuntime(exec system.CommandExecutor) (*CLIRuntime, error) {
	for _, cmd := range []string{"podman", "docker"} {
		if _, err := exec.LookPath(cmd); err == nil {
			logging.Debug("detected container CLI", "command", cmd)
			return &CLIRuntime{Command: cmd, exec: exec}, nil
		}
	}
	return nil, fmt.Errorf("neither podman nor docker found in PATH")
}

// Name returns the runtime identifier
func (r *CLIRuntime) Name() string {
	return r.Command
}

func (r *CLIRuntime) runCmd(ctx context.Context, args ...string) ([]byte, error) {
	out, err := r.exec.Execute(ctx, r.Command, args...)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %s: %w", r.Command, args[0], strings.TrimSpace(string(out)), err)
	}
	return out, nil
}

// List returns the running containers.
func (r *CLIRuntime) List(ctx context.Context) ([]*ContainerInfo, error) {
	out, err := r.runCmd(ctx, "ps", "-q", "--no-trunc")
	if err != nil {
		return nil, err
	}

	ids := strings.Fields(string(out))
	if len(ids) == 0 {
		return nil, nil
	}

	return r.inspect(ctx, ids...)
}

// Inspect returns a single container.
func (r *CLIRuntime) Inspect(ctx context.Context, id string) (*ContainerInfo, error) {
	infos, err := r.inspect(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("container %s not found", id)
	}
	return infos[0], nil
}

// dockerInspect holds the relevant fields from docker/podman inspect
type dockerInspect struct {
	ID    string `json:"Id"`
	Name  string `json:"Name"`
	State struct {
		Running bool `json:"Running"`
	} `json:"State"`
	Config struct {
		Labels map[string]string `json:"Labels"`
	} `json:"Config"`
	Mounts []struct {
		Type        string `json:"Type"`
		Source      string `json:"Source"`
		Destination string `json:"Destination"`
	} `json:"Mounts"`
	NetworkSettings struct {
		Ports map[string][]struct {
			HostIP   string `json:"HostIp"`
			HostPort string `json:"HostPort"`
		} `json:"Ports"`
	} `json:"NetworkSettings"`
}

func (r *CLIRuntime) inspect(ctx context.Context, ids ...string) ([]*ContainerInfo, error) {
	out, err := r.runCmd(ctx, append([]string{"inspect"}, ids...)...)
	if err != nil {
		return nil, err
	}

	var inspects []dockerInspect
	if err := json.Unmarshal(out, &inspects); err != nil {
		return nil, fmt.Errorf("failed to parse %s inspect output: %w", r.Command, err)
	}

	result := make([]*ContainerInfo, 0, len(inspects))
	for _, in := range inspects {
		result = append(result, in.toInfo())
	}
	return result, nil
}

func (in dockerInspect) toInfo() *ContainerInfo {
	info := &ContainerInfo{
		ID:      in.ID,
		Name:    strings.TrimPrefix(in.Name, "/"),
		Running: in.State.Running,
		Labels:  in.Config.Labels,
	}

	for _, m := range in.Mounts {
		info.Mounts = append(info.Mounts, Mount{
			Type:        m.Type,
			Source:      m.Source,
			Destination: m.Destination,
		})
	}

	for key, bindings := range in.NetworkSettings.Ports {
		private, proto := parsePortKey(key)
		if private == 0 {
			continue
		}
		for _, b := range bindings {
			public, err := strconv.Atoi(b.HostPort)
			if err != nil {
				continue
			}
			info.Ports = append(info.Ports, PortMapping{
				Private:  private,
				Public:   public,
				Protocol: proto,
				HostIP:   b.HostIP,
			})
		}
	}

	return info
}

// parsePortKey splits "6006/tcp" into its number and protocol.
func parsePortKey(key string) (int, string) {
	num, proto, found := strings.Cut(key, "/")
	if !found {
		proto = "tcp"
	}
	p, err := strconv.Atoi(num)
	if err != nil {
		return 0, ""
	}
	return p, proto
}

var _ Runtime = (*CLIRuntime)(nil)
