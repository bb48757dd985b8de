// Package port probes the local socket table and allocates host ports for
// the monitoring stack services.
//
// # Probing
//
// A Prober answers two questions from the OS listening-socket table:
//
//	bound := prober.IsBound(ctx, 8428)
//	ports, err := port.ListListeningPorts(ctx, prober, deny)
//
// SystemProber reads the table through gopsutil. It never connects, so a
// service bound only to loopback is still seen. When the table cannot be
// read, IsBound fails closed and reports the port as unbound.
//
// # Allocation
//
// Allocate walks the requests in caller order. Each request starts at its
// default port and increments past anything bound, reserved or already
// assigned in the run:
//
//	alloc := port.NewAllocator(prober, prompter)
//	assignments, warnings, err := alloc.Allocate(ctx, requests, reserved)
//
// The suggestion goes through a Prompter so the operator can override it.
// An override that is in use is rejected and the search restarts from
// override+1.
//
// If nothing is free within the search window (default +100) the default
// port itself is suggested again. That assignment is marked Forced and a
// port-exhausted warning is returned with it.
//
// Assignments are checked against the socket table once, at assignment
// time. Nothing re-verifies them afterwards, and two sessions allocating
// at the same moment can race.
package port
