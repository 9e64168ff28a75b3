// Package instrumentation provides OpenTelemetry-based observability for
// the patentsafe-mcp server.
//
// It covers three concerns:
//
//   - Metrics: MCP tool invocation counts and latencies, PatentSafe API
//     operation counts and latencies, and search pagination gauges
//     (unredeemed continuation tokens, delivered pages). Exported via
//     Prometheus by default, or OTLP/stdout per configuration.
//
//   - Tracing: spans for tool invocations and backend API calls, exported
//     via OTLP or stdout; disabled by default.
//
//   - Audit logging: one structured log line per tool invocation with tool
//     name, operation, outcome, duration, and trace correlation IDs.
//
// Configuration comes from environment variables (see DefaultConfig). The
// Provider owns the meter and tracer providers and must be shut down to
// flush pending telemetry.
package instrumentation
