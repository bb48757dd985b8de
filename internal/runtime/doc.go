// Package runtime provides a read-only view of the local container engine.
//
// Discovery only needs two things from a container engine: the list of
// running containers, and each container's published ports and mounts.
//
// Supported backends:
//   - engine: the Docker Engine API, through the official Go client
//   - podman, docker: the CLI, through system.CommandExecutor
//
// New with RuntimeAuto tries the engine API first and falls back to
// whichever CLI is on PATH. When none works the host has no container
// capability, and callers treat that as "no container matched".
//
// # Mock Runtime
//
// For testing, use NewMockRuntime() and AddContainer to set up the
// containers a test expects to find. Injected errors are keyed by method
// name ("List", "Inspect").
package runtime
