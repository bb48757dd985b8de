// Package deploy works out how the target service is deployed on this host.
//
// Detect checks the container engine first and the OS process table second,
// so a service that is both containerized and visible as a host process is
// reported as Containerized. Neither matching is a TargetNotFound error.
//
// For a containerized target the data directory is resolved through the
// container's mounts. When no mount covers it, or the host path can't be
// read, the configured default path is used and flagged unverified.
package deploy
