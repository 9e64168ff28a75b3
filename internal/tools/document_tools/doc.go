// Package document_tools provides MCP tools for reading PatentSafe documents.
//
// # Available Tools
//
//   - get_document: Fetch a single document by ID, including metadata and text
//   - list_documents: List documents in the personal intray, global intray, or library
//
// Backend errors surface as tool error results with stable messages; a 404
// deliberately reads the same for missing and access-denied documents.
package document_tools
