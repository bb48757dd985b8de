package testutil

import (
	"github.com/rippled-monitor/monitor-ctl/internal/config"
	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/runtime"
)

// RippledContainerID is the ID of the container returned by RippledContainer.
const RippledContainerID = "0123456789abcdef0123"

// RippledContainer returns a running rippled container with its data
// directory bind-mounted from /srv/rippled.
func RippledContainer() *runtime.ContainerInfo {
	return &runtime.ContainerInfo{
		ID:      RippledContainerID,
		Name:    "rippled",
		Running: true,
		Ports: []runtime.PortMapping{
			{Private: 5005, Public: 5005, Protocol: "tcp"},
			{Private: 6006, Public: 6006, Protocol: "tcp"},
			{Private: config.DefaultPeerPort, Public: config.DefaultPeerPort, Protocol: "tcp"},
		},
		Mounts: []runtime.Mount{
			{Type: "bind", Source: "/srv/rippled", Destination: config.DefaultDataDir},
		},
	}
}

// StackContainer returns a running compose container of project that
// publishes hostPort for the named service.
func StackContainer(project, service string, hostPort, containerPort int) *runtime.ContainerInfo {
	return &runtime.ContainerInfo{
		ID:      project + "-" + service,
		Name:    project + "-" + service + "-1",
		Running: true,
		Labels:  map[string]string{runtime.ComposeProjectLabel: project},
		Ports: []runtime.PortMapping{
			{Private: containerPort, Public: hostPort, Protocol: "tcp"},
		},
	}
}

// LocalPair returns the HTTP RPC and admin websocket endpoints of the
// fixture, unverified.
func LocalPair() endpoint.Pair {
	httpEP := endpoint.Endpoint{Kind: endpoint.KindHTTPRPC, Host: "127.0.0.1", Port: 5005}
	wsEP := endpoint.Endpoint{Kind: endpoint.KindWSAdmin, Host: "127.0.0.1", Port: 6006}
	return endpoint.Pair{HTTP: &httpEP, WS: &wsEP}
}
