// Package stack hands the discovery results to the monitoring stack.
//
// Writer renders two files into the stack directory: a .env file with the
// assigned ports and target endpoints, and a docker-compose.override.yml
// that publishes each service on its assigned host port. Launcher then runs
// docker compose with the base file and the override.
//
// Dashboard provisioning and notification channels are configured by the
// stack itself and are not touched here.
package stack
