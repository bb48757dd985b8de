package runtime

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"

	"github.com/rippled-monitor/monitor-ctl/internal/logging"
)

// EngineRuntime talks to the Docker Engine API directly.
type EngineRuntime struct {
	cli *client.Client
}

// NewEngineRuntime connects to the engine named by the DOCKER_* environment
// and checks that it answers.
func NewEngineRuntime(ctx context.Context) (*EngineRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	if _, err := cli.Ping(ctx); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("docker engine unreachable: %w", err)
	}

	return &EngineRuntime{cli: cli}, nil
}

// Name returns the runtime identifier
func (r *EngineRuntime) Name() string {
	return "docker-engine"
}

// Close releases the client connection.
func (r *EngineRuntime) Close() error {
	return r.cli.Close()
}

// List returns the running containers.
func (r *EngineRuntime) List(ctx context.Context) ([]*ContainerInfo, error) {
	containers, err := r.cli.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	result := make([]*ContainerInfo, 0, len(containers))
	for _, c := range containers {
		result = append(result, fromSummary(c))
	}

	logging.Debug("listed containers", "runtime", r.Name(), "count", len(result))
	return result, nil
}

// Inspect returns a single container.
func (r *EngineRuntime) Inspect(ctx context.Context, id string) (*ContainerInfo, error) {
	c, err := r.cli.ContainerInspect(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect container %s: %w", id, err)
	}
	return fromInspect(c), nil
}

func fromSummary(c types.Container) *ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	info := &ContainerInfo{
		ID:      c.ID,
		Name:    name,
		Running: c.State == "running",
		Labels:  c.Labels,
	}

	for _, p := range c.Ports {
		info.Ports = append(info.Ports, PortMapping{
			Private:  int(p.PrivatePort),
			Public:   int(p.PublicPort),
			Protocol: p.Type,
			HostIP:   p.IP,
		})
	}
	for _, m := range c.Mounts {
		info.Mounts = append(info.Mounts, Mount{
			Type:        string(m.Type),
			Source:      m.Source,
			Destination: m.Destination,
		})
	}

	return info
}

func fromInspect(c types.ContainerJSON) *ContainerInfo {
	info := &ContainerInfo{}
	if c.ContainerJSONBase != nil {
		info.ID = c.ID
		info.Name = strings.TrimPrefix(c.Name, "/")
		if c.State != nil {
			info.Running = c.State.Running
		}
	}
	if c.Config != nil {
		info.Labels = c.Config.Labels
	}

	for _, m := range c.Mounts {
		info.Mounts = append(info.Mounts, Mount{
			Type:        string(m.Type),
			Source:      m.Source,
			Destination: m.Destination,
		})
	}

	if c.NetworkSettings != nil {
		for p, bindings := range c.NetworkSettings.Ports {
			for _, b := range bindings {
				public, err := strconv.Atoi(b.HostPort)
				if err != nil {
					continue
				}
				info.Ports = append(info.Ports, PortMapping{
					Private:  p.Int(),
					Public:   public,
					Protocol: p.Proto(),
					HostIP:   b.HostIP,
				})
			}
		}
	}

	return info
}

var _ Runtime = (*EngineRuntime)(nil)
