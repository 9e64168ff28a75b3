// Package common provides shared utilities for MCP tool implementations.
// It contains the instrumentation wrapper applied to every tool handler and
// the mapping from classified backend errors to user-facing tool results.
package common
