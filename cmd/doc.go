// Package cmd implements the command-line interface for patentsafe-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing PatentSafe document tools
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
