// Package logging provides structured logging utilities for the
// patentsafe-mcp server.
//
// It centralizes attribute naming over the standard library's slog package
// so log lines are queryable with consistent keys, and masks the PatentSafe
// authentication token wherever it could otherwise leak into a log line.
//
// All process logging goes to stderr: in stdio transport mode, stdout is the
// MCP wire channel and must carry nothing else.
package logging
