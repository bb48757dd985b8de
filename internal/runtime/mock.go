package runtime

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MockRuntime is a mock implementation of Runtime for testing
type MockRuntime struct {
	mu sync.RWMutex

	// Containers tracks the state of mock containers, keyed by ID
	Containers map[string]*ContainerInfo

	// Errors allows injecting errors for specific operations
	Errors map[string]error

	// CallLog records all method calls for verification
	CallLog []MockCall
}

// MockCall represents a recorded method call
type MockCall struct {
	Method string
	Args   []interface{}
}

// NewMockRuntime creates a new mock runtime
func NewMockRuntime() *MockRuntime {
	return &MockRuntime{
		Containers: make(map[string]*ContainerInfo),
		Errors:     make(map[string]error),
		CallLog:    make([]MockCall, 0),
	}
}

func (m *MockRuntime) record(method string, args ...interface{}) {
	m.CallLog = append(m.CallLog, MockCall{Method: method, Args: args})
}

// SetError sets an error to be returned for a specific operation
func (m *MockRuntime) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[operation] = err
}

// AddContainer adds a container to the mock. An empty ID defaults to the name.
func (m *MockRuntime) AddContainer(info *ContainerInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if info.ID == "" {
		info.ID = info.Name
	}
	m.Containers[info.ID] = info
}

// GetCallsFor returns all calls for a specific method
func (m *MockRuntime) GetCallsFor(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var calls []MockCall
	for _, call := range m.CallLog {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// Reset clears all state
func (m *MockRuntime) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Containers = make(map[string]*ContainerInfo)
	m.Errors = make(map[string]error)
	m.CallLog = make([]MockCall, 0)
}

// Name returns the runtime identifier
func (m *MockRuntime) Name() string {
	return "mock"
}

// List returns the running mock containers sorted by ID.
func (m *MockRuntime) List(ctx context.Context) ([]*ContainerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("List")

	if err, ok := m.Errors["List"]; ok {
		return nil, err
	}

	var containers []*ContainerInfo
	for _, c := range m.Containers {
		if c.Running {
			containers = append(containers, c)
		}
	}
	sort.Slice(containers, func(i, j int) bool {
		return containers[i].ID < containers[j].ID
	})

	return containers, nil
}

// Inspect returns a container by ID or name.
func (m *MockRuntime) Inspect(ctx context.Context, id string) (*ContainerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Inspect", id)

	if err, ok := m.Errors["Inspect"]; ok {
		return nil, err
	}

	if c, ok := m.Containers[id]; ok {
		return c, nil
	}
	for _, c := range m.Containers {
		if c.Name == id {
			return c, nil
		}
	}

	return nil, fmt.Errorf("container not found: %s", id)
}

var _ Runtime = (*MockRuntime)(nil)
