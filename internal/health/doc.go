// Package health re-verifies stored endpoints and reports their status.
//
// An endpoint found by discovery is tentative until it answers a
// connectivity probe: server_info for the HTTP RPC endpoint, ping for a
// WebSocket endpoint.
//
//	ep, err := checker.Verify(ctx, ep)          // one endpoint
//	kept, warnings := checker.Reverify(ctx, eps) // drop the ones that fail
//
// # Health Status
//
//	StatusHealthy   - every endpoint answers
//	StatusDegraded  - some endpoints answer
//	StatusUnhealthy - no endpoint answers
//	StatusStopped   - the runtime reports the target's container stopped
//	StatusUnknown   - nothing stored to check
//
// When the runtime is unavailable or inspect fails, the container state is
// ContainerUnknown, a warning is attached, and the status comes from the
// endpoints alone.
package health
