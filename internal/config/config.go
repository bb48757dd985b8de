package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigDir  = "/etc/rippled-monitor"
	DefaultConfigFile = "config.toml"
	DefaultStateDir   = "/var/lib/rippled-monitor"
	DefaultStackDir   = "/opt/rippled-monitor"
	DefaultProject    = "rippled-monitor"

	DefaultTargetName = "rippled"
	DefaultDataDir    = "/var/lib/rippled"
	DefaultPeerPort   = 51235

	DefaultProbeTimeout = 2 * time.Second
	DefaultWSTimeout    = 5 * time.Second
	DefaultSearchWindow = 100

	MinPort = 1
	MaxPort = 65535
)

// SystemReservedPorts are never discovery or allocation targets.
var SystemReservedPorts = []int{22, 80, 443}

// serviceNameRegex validates stack service names. They become compose
// service keys and .env variable prefixes.
var serviceNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// ValidateServiceName checks if a stack service name is valid.
func ValidateServiceName(name string) error {
	if name == "" {
		return fmt.Errorf("service name cannot be empty")
	}

	if !serviceNameRegex.MatchString(name) {
		return fmt.Errorf("invalid service name %q: must start with a lowercase letter or digit, contain only lowercase letters, digits, underscores, or hyphens, and be at most 63 characters", name)
	}

	return nil
}

// ValidPort reports whether p is a usable TCP port number.
func ValidPort(p int) bool {
	return p >= MinPort && p <= MaxPort
}

// Config is the monitor-ctl configuration loaded from config.toml
type Config struct {
	StateDir  string    `toml:"state_dir"`
	Runtime   string    `toml:"runtime"` // auto, engine, docker or podman
	Target    Target    `toml:"target"`
	Discovery Discovery `toml:"discovery"`
	Stack     Stack     `toml:"stack"`
}

// Target describes the externally managed validator being discovered.
type Target struct {
	Name            string `toml:"name"`              // container-name match, case-insensitive
	Process         string `toml:"process"`           // exact executable name
	DataDir         string `toml:"data_dir"`          // data directory inside the container
	DefaultDataPath string `toml:"default_data_path"` // host fallback when no mount resolves
	PeerPort        int    `toml:"peer_port"`
	AdminPorts      []int  `toml:"admin_ports"` // conventional admin websocket ports
	Brand           string `toml:"brand"`       // marker searched for in plain GET responses
}

// Discovery holds probe settings.
type Discovery struct {
	Host         string        `toml:"host"`
	ProbeTimeout time.Duration `toml:"probe_timeout"`
	WSTimeout    time.Duration `toml:"ws_timeout"`
	DenyPorts    []int         `toml:"deny_ports"`
	SearchWindow int           `toml:"search_window"`
}

// Stack describes the monitoring services whose ports are allocated.
type Stack struct {
	Dir      string    `toml:"dir"`
	Project  string    `toml:"project"`
	Services []Service `toml:"services"`
}

// Service is one stack service and its preferred host port.
type Service struct {
	Name        string `toml:"name"`
	DefaultPort int    `toml:"default_port"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StateDir: DefaultStateDir,
		Runtime:  "auto",
		Target: Target{
			Name:            DefaultTargetName,
			Process:         DefaultTargetName,
			DataDir:         DefaultDataDir,
			DefaultDataPath: DefaultDataDir,
			PeerPort:        DefaultPeerPort,
			AdminPorts:      []int{6005, 6006, 6007},
			Brand:           DefaultTargetName,
		},
		Discovery: Discovery{
			Host:         "127.0.0.1",
			ProbeTimeout: DefaultProbeTimeout,
			WSTimeout:    DefaultWSTimeout,
			DenyPorts:    []int{22, 25, 53, 80, 111, 443, 631, 2375, 2376, 5432, 6379},
			SearchWindow: DefaultSearchWindow,
		},
		Stack: Stack{
			Dir:     DefaultStackDir,
			Project: DefaultProject,
			Services: []Service{
				{Name: "grafana", DefaultPort: 3000},
				{Name: "victoriametrics", DefaultPort: 8428},
				{Name: "vmagent", DefaultPort: 8429},
				{Name: "node-exporter", DefaultPort: 9100},
			},
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultConfigDir, DefaultConfigFile)
}

// Load reads config.toml over the built-in defaults. A missing file is not
// an error; the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys in %s: %v", path, undecoded)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the Config is valid.
func (c *Config) Validate() error {
	if c.StateDir == "" {
		return fmt.Errorf("state_dir is required")
	}
	switch c.Runtime {
	case "auto", "engine", "docker", "podman":
	default:
		return fmt.Errorf("runtime must be one of auto, engine, docker, podman (got %q)", c.Runtime)
	}
	if err := c.Target.Validate(); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if err := c.Discovery.Validate(); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	if err := c.Stack.Validate(); err != nil {
		return fmt.Errorf("stack: %w", err)
	}
	return nil
}

// Validate checks that the Target is valid.
func (t *Target) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if t.Process == "" {
		return fmt.Errorf("process is required")
	}
	if !filepath.IsAbs(t.DataDir) {
		return fmt.Errorf("data_dir must be an absolute path (got %q)", t.DataDir)
	}
	if !filepath.IsAbs(t.DefaultDataPath) {
		return fmt.Errorf("default_data_path must be an absolute path (got %q)", t.DefaultDataPath)
	}
	if !ValidPort(t.PeerPort) {
		return fmt.Errorf("peer_port out of range: %d", t.PeerPort)
	}
	for _, p := range t.AdminPorts {
		if !ValidPort(p) {
			return fmt.Errorf("admin_ports entry out of range: %d", p)
		}
	}
	return nil
}

// Validate checks that the Discovery settings are valid.
func (d *Discovery) Validate() error {
	if d.Host == "" {
		return fmt.Errorf("host is required")
	}
	if d.ProbeTimeout <= 0 || d.WSTimeout <= 0 {
		return fmt.Errorf("probe timeouts must be positive")
	}
	if d.SearchWindow < 1 {
		return fmt.Errorf("search_window must be at least 1 (got %d)", d.SearchWindow)
	}
	for _, p := range d.DenyPorts {
		if !ValidPort(p) {
			return fmt.Errorf("deny_ports entry out of range: %d", p)
		}
	}
	return nil
}

// Validate checks that the Stack settings are valid.
func (s *Stack) Validate() error {
	seen := make(map[string]bool)
	for _, svc := range s.Services {
		if err := ValidateServiceName(svc.Name); err != nil {
			return err
		}
		if seen[svc.Name] {
			return fmt.Errorf("duplicate service %q", svc.Name)
		}
		seen[svc.Name] = true
		if !ValidPort(svc.DefaultPort) {
			return fmt.Errorf("service %s: default_port out of range: %d", svc.Name, svc.DefaultPort)
		}
	}
	return nil
}

// DiscoveryDenySet returns the ports that are never discovery candidates:
// the system-reserved ports, the configured deny-list and the stack's own
// default ports.
func (c *Config) DiscoveryDenySet() map[int]bool {
	deny := make(map[int]bool)
	for _, p := range SystemReservedPorts {
		deny[p] = true
	}
	for _, p := range c.Discovery.DenyPorts {
		deny[p] = true
	}
	for _, svc := range c.Stack.Services {
		deny[svc.DefaultPort] = true
	}
	return deny
}
