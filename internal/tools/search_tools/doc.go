// Package search_tools provides the MCP full-text search tools backed by the
// paginating search gateway.
//
// # Available Tools
//
//   - search_documents: Lucene full-text search with optional author and
//     submission-date filters; oversized result sets return a one-time
//     continuation token
//   - search_documents_next_page: Redeem a continuation token for the next page
//
// The search_documents description is not static text: at registration it is
// rendered against the startup handshake, embedding the deployment's metadata
// field vocabulary and the citation URL pattern for document links.
package search_tools
