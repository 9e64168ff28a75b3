// Package resources provides MCP resources for exposing connection data.
// Resources are read-only data sources that MCP clients can fetch; the
// server-info resource surfaces the frozen startup handshake so agents can
// inspect the deployment's metadata vocabulary without a tool call.
package resources
