package common

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/amphora/patentsafe-mcp/internal/patentsafe"
	"github.com/amphora/patentsafe-mcp/internal/search"
)

// DocumentErrorResult maps a classified backend error from a document
// operation to an MCP error result. A 404 reads as "not found or access
// denied" so callers cannot probe for the existence of documents they may
// not read.
func DocumentErrorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, patentsafe.ErrNotFound):
		return mcp.NewToolResultError("Document not found or access denied")
	case errors.Is(err, patentsafe.ErrUnauthorized):
		return mcp.NewToolResultError("Unauthorized - invalid user ID")
	case errors.Is(err, patentsafe.ErrForbidden):
		return mcp.NewToolResultError("Access denied")
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Request failed: %v", err))
	}
}

// SearchErrorResult maps a classified backend error from a search operation
// to an MCP error result. The backend's 400 message names the offending
// part of the Lucene query, so it is passed through verbatim.
func SearchErrorResult(err error) *mcp.CallToolResult {
	var apiErr *patentsafe.APIError

	switch {
	case errors.Is(err, patentsafe.ErrBadRequest):
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid search query: %s", apiErr.Message))
		}
		return mcp.NewToolResultError("Invalid search query")
	case errors.Is(err, patentsafe.ErrUnauthorized):
		return mcp.NewToolResultError("Unauthorized - invalid user ID")
	case errors.Is(err, patentsafe.ErrForbidden):
		return mcp.NewToolResultError("Access denied")
	case errors.Is(err, search.ErrTokenNotFound):
		return mcp.NewToolResultError("Unknown or already used page token; start a new search")
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Search failed: %v", err))
	}
}
