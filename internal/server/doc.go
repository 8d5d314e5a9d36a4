// Package server holds the runtime pieces shared by the MCP transports.
//
// # Key Components
//
// ServerContext carries the authenticated Calendar and Tasks clients, the
// event payload builder and the instrumentation handles that tool handlers use.
//
// HealthChecker serves /healthz, /readyz and /healthz/detailed next to the
// streamable HTTP transport.
//
// MetricsServer exposes the Prometheus /metrics endpoint on its own port,
// and InstrumentHandler records HTTP request metrics for the MCP endpoint.
package server
