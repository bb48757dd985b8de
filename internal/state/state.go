// Package state persists the outcome of an installer run.
//
// The state file records the deployment descriptor, the resolved endpoints
// and the port map. On the next run the stored ports become the default
// ports, so a re-run keeps the stack where it was unless something else has
// taken a port since.
package state

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/rippled-monitor/monitor-ctl/internal/config"
	"github.com/rippled-monitor/monitor-ctl/internal/deploy"
	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/port"
	"github.com/rippled-monitor/monitor-ctl/internal/system"
)

// CurrentVersion is the state file format version.
const CurrentVersion = 1

// ErrNoState is returned by Load when no state has been saved yet.
var ErrNoState = stderrors.New("no saved state")

// State is what one completed run leaves behind.
type State struct {
	Version     int                `json:"version"`
	Project     string             `json:"project"`
	SavedAt     time.Time          `json:"savedAt"`
	Descriptor  *deploy.Descriptor `json:"descriptor,omitempty"`
	Endpoints   endpoint.Pair      `json:"endpoints"`
	Assignments []port.Assignment  `json:"assignments,omitempty"`
}

// PortOf returns the stored port for service, or 0.
func (s *State) PortOf(service string) int {
	if s == nil {
		return 0
	}
	for _, a := range s.Assignments {
		if a.Service == service {
			return a.Port
		}
	}
	return 0
}

// Requests builds allocation requests for services. A service that has a
// stored port asks for that port instead of its configured default.
func (s *State) Requests(services []config.Service) []port.Request {
	reqs := make([]port.Request, 0, len(services))
	for _, svc := range services {
		def := svc.DefaultPort
		if p := s.PortOf(svc.Name); port.Valid(p) {
			def = p
		}
		reqs = append(reqs, port.Request{Service: svc.Name, DefaultPort: def})
	}
	return reqs
}

// EndpointList returns the stored endpoints, HTTP first.
func (s *State) EndpointList() []endpoint.Endpoint {
	var out []endpoint.Endpoint
	if s == nil {
		return out
	}
	if s.Endpoints.HTTP != nil {
		out = append(out, *s.Endpoints.HTTP)
	}
	if s.Endpoints.WS != nil {
		out = append(out, *s.Endpoints.WS)
	}
	return out
}

// Store reads and writes state files under a directory.
type Store struct {
	fs  system.FileSystem
	dir string
}

// NewStore creates a store rooted at dir. A nil fs uses the real filesystem.
func NewStore(fs system.FileSystem, dir string) *Store {
	if fs == nil {
		fs = system.DefaultFS()
	}
	return &Store{fs: fs, dir: dir}
}

// Path returns the state file for project.
func (st *Store) Path(project string) (string, error) {
	return safePath(st.dir, project, ".json")
}

// Load reads the state for project. Returns ErrNoState if none was saved.
func (st *Store) Load(project string) (*State, error) {
	path, err := st.Path(project)
	if err != nil {
		return nil, err
	}

	data, err := st.fs.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoState
		}
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	if s.Version > CurrentVersion {
		return nil, fmt.Errorf("state file version %d is newer than supported version %d", s.Version, CurrentVersion)
	}

	return &s, nil
}

// Save writes s atomically: to a temporary file first, then renamed over
// the previous state.
func (st *Store) Save(s *State) error {
	path, err := st.Path(s.Project)
	if err != nil {
		return err
	}

	s.Version = CurrentVersion
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := system.WriteAtomic(st.fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// safePath validates that a constructed path stays within the base directory.
func safePath(baseDir, name, suffix string) (string, error) {
	if err := config.ValidateServiceName(name); err != nil {
		return "", fmt.Errorf("invalid project name: %w", err)
	}

	if filepath.IsAbs(name) {
		return "", fmt.Errorf("name cannot be an absolute path")
	}
	if filepath.Dir(name) != "." {
		return "", fmt.Errorf("name cannot contain path separators")
	}

	path := filepath.Join(baseDir, name+suffix)

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("invalid base directory: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if filepath.Dir(absPath) != absBase {
		return "", fmt.Errorf("path escapes base directory")
	}

	return path, nil
}
