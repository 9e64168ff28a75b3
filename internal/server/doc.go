// Package server provides the MCP server context and operational HTTP
// endpoints for the PatentSafe gateway.
//
// # Key Components
//
// ServerContext carries the authenticated PatentSafe client, the handshake
// result, and the paginating search gateway shared by all tool handlers.
// It owns a cancellable context so in-flight backend calls stop on shutdown.
//
// MetricsServer exposes Prometheus metrics on a dedicated port, kept apart
// from the MCP transport. On stdio the protocol owns stdout outright, so
// operational endpoints can never share it.
//
// HealthChecker serves liveness and readiness probes. Readiness reflects
// whether the startup handshake with PatentSafe completed; the detailed
// endpoint additionally reports the backend version and the number of
// unredeemed search continuation tokens.
package server
