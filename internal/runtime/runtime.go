package runtime

import (
	"context"
	"sort"
	"strings"
)

// PortMapping is a container port published on the host.
type PortMapping struct {
	Private  int    `json:"private"`
	Public   int    `json:"public"`
	Protocol string `json:"protocol"`
	HostIP   string `json:"hostIp,omitempty"`
}

// Mount is a volume or bind mount attached to a container.
type Mount struct {
	Type        string `json:"type"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// ContainerInfo holds what discovery needs to know about a container.
type ContainerInfo struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Running bool              `json:"running"`
	Ports   []PortMapping     `json:"ports,omitempty"`
	Mounts  []Mount           `json:"mounts,omitempty"`
	Labels  map[string]string `json:"labels,omitempty"`
}

// ComposeProjectLabel is set by docker compose on every container it starts.
const ComposeProjectLabel = "com.docker.compose.project"

// PublishedPorts returns the distinct host-side TCP ports, ascending.
func (c *ContainerInfo) PublishedPorts() []int {
	seen := make(map[int]bool)
	for _, p := range c.Ports {
		if p.Public == 0 || (p.Protocol != "" && p.Protocol != "tcp") {
			continue
		}
		seen[p.Public] = true
	}
	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// Runtime is the read-only view of a container engine.
// All methods should be safe for concurrent use.
type Runtime interface {
	// Name returns the runtime identifier (e.g., "docker-engine", "podman")
	Name() string

	// List returns the running containers with their ports and mounts.
	List(ctx context.Context) ([]*ContainerInfo, error)

	// Inspect returns a single container by ID or name.
	Inspect(ctx context.Context, id string) (*ContainerInfo, error)
}

// FindByName returns the running container whose name matches target,
// case-insensitively. An exact name wins over a substring match; among
// substring matches the shortest name wins, ties broken lexically. Returns
// nil if none matches.
func FindByName(ctx context.Context, rt Runtime, target string) (*ContainerInfo, error) {
	containers, err := rt.List(ctx)
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(target)
	var partial []*ContainerInfo
	for _, c := range containers {
		if !c.Running {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(c.Name, "/"))
		if name == want {
			return c, nil
		}
		if strings.Contains(name, want) {
			partial = append(partial, c)
		}
	}

	if len(partial) == 0 {
		return nil, nil
	}
	sort.Slice(partial, func(i, j int) bool {
		a, b := partial[i].Name, partial[j].Name
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
	return partial[0], nil
}

// ProjectPorts returns the host ports published by the running containers
// of a compose project.
func ProjectPorts(ctx context.Context, rt Runtime, project string) (map[int]bool, error) {
	containers, err := rt.List(ctx)
	if err != nil {
		return nil, err
	}

	ports := make(map[int]bool)
	for _, c := range containers {
		if !c.Running || c.Labels[ComposeProjectLabel] != project {
			continue
		}
		for _, p := range c.PublishedPorts() {
			ports[p] = true
		}
	}
	return ports, nil
}
