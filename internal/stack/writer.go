package stack

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rippled-monitor/monitor-ctl/internal/config"
	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/logging"
	"github.com/rippled-monitor/monitor-ctl/internal/port"
	"github.com/rippled-monitor/monitor-ctl/internal/system"
)

// File names inside the stack directory.
const (
	EnvFile      = ".env"
	BaseFile     = "docker-compose.yml"
	OverrideFile = "docker-compose.override.yml"
)

// Plan is everything the stack needs from one run.
type Plan struct {
	Project     string
	Services    []config.Service
	Assignments []port.Assignment
	Endpoints   endpoint.Pair
	DataPath    string
}

// hostPort returns the assigned port for service, or its default.
func (p *Plan) hostPort(svc config.Service) int {
	for _, a := range p.Assignments {
		if a.Service == svc.Name {
			return a.Port
		}
	}
	return svc.DefaultPort
}

// EnvKey turns a service name into an environment variable prefix.
func EnvKey(service string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(service))
}

// Env renders the .env file. Keys are emitted in a fixed order.
func (p *Plan) Env() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "COMPOSE_PROJECT_NAME=%s\n", p.Project)
	for _, svc := range p.Services {
		fmt.Fprintf(&b, "%s_PORT=%d\n", EnvKey(svc.Name), p.hostPort(svc))
	}
	if p.Endpoints.HTTP != nil {
		fmt.Fprintf(&b, "RIPPLED_RPC_URL=%s\n", p.Endpoints.HTTP.URL())
	}
	if p.Endpoints.WS != nil {
		fmt.Fprintf(&b, "RIPPLED_WS_URL=%s\n", p.Endpoints.WS.URL())
	}
	if p.DataPath != "" {
		fmt.Fprintf(&b, "RIPPLED_DATA_PATH=%s\n", p.DataPath)
	}
	return b.Bytes()
}

type composeOverride struct {
	Services map[string]composeService `yaml:"services"`
}

type composeService struct {
	Ports []string `yaml:"ports"`
}

// Override renders docker-compose.override.yml. Each service is published on
// its assigned host port, bound to loopback, mapped to its default port
// inside the container.
func (p *Plan) Override() ([]byte, error) {
	doc := composeOverride{Services: make(map[string]composeService, len(p.Services))}
	for _, svc := range p.Services {
		doc.Services[svc.Name] = composeService{
			Ports: []string{fmt.Sprintf("127.0.0.1:%d:%d", p.hostPort(svc), svc.DefaultPort)},
		}
	}

	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to render compose override: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Writer writes the stack files.
type Writer struct {
	fs  system.FileSystem
	dir string
}

// NewWriter creates a writer for the stack directory.
func NewWriter(fs system.FileSystem, dir string) *Writer {
	if fs == nil {
		fs = system.DefaultFS()
	}
	return &Writer{fs: fs, dir: dir}
}

// Write renders plan into the stack directory.
func (w *Writer) Write(plan *Plan) error {
	override, err := plan.Override()
	if err != nil {
		return err
	}

	files := []struct {
		name string
		data []byte
	}{
		{EnvFile, plan.Env()},
		{OverrideFile, override},
	}
	for _, f := range files {
		path := filepath.Join(w.dir, f.name)
		if err := system.WriteAtomic(w.fs, path, f.data, 0644); err != nil {
			return err
		}
		logging.Debug("wrote stack file", "path", path)
	}

	return nil
}
