// Package config provides configuration types and loading for monitor-ctl.
//
// Configuration lives in a single TOML file, /etc/rippled-monitor/config.toml
// by default. Every key is optional: Load starts from Default() and overlays
// whatever the file sets.
//
//	state_dir = "/var/lib/rippled-monitor"
//
//	[target]
//	name = "rippled"
//	admin_ports = [6005, 6006]
//
//	[discovery]
//	probe_timeout = "2s"
//	deny_ports = [22, 80, 443]
//
//	[[stack.services]]
//	name = "grafana"
//	default_port = 3000
//
// # Reserved Ports
//
// SystemReservedPorts (22, 80, 443) are never discovery or allocation
// targets. DiscoveryDenySet additionally removes the configured deny-list and
// the stack's own default ports from the discovery candidates.
package config
