package document_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/amphora/patentsafe-mcp/internal/instrumentation"
	"github.com/amphora/patentsafe-mcp/internal/patentsafe"
	"github.com/amphora/patentsafe-mcp/internal/server"
	"github.com/amphora/patentsafe-mcp/internal/tools/common"
)

// RegisterDocumentTools registers the document read and list tools with the
// MCP server. The prefix, when non-empty, is prepended to every tool name so
// multiple PatentSafe servers can coexist in one agent configuration.
func RegisterDocumentTools(s *mcpserver.MCPServer, sc *server.ServerContext, prefix string) error {
	getDocumentTool := mcp.NewTool(common.PrefixedToolName(prefix, "get_document"),
		mcp.WithDescription("Get a PatentSafe document by its ID, including metadata and full text content"),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the document to get"),
		),
	)

	s.AddTool(getDocumentTool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandlerWithOperation(
		getDocumentTool.Name, instrumentation.OperationGet, sc, getDocumentHandler(sc))))

	listDocumentsTool := mcp.NewTool(common.PrefixedToolName(prefix, "list_documents"),
		mcp.WithDescription("List PatentSafe documents from a specific location"),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("The location to list documents from (personal-intray, global-intray, or library)"),
			mcp.Enum(string(patentsafe.LocationPersonalIntray),
				string(patentsafe.LocationGlobalIntray),
				string(patentsafe.LocationLibrary)),
		),
	)

	s.AddTool(listDocumentsTool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandlerWithOperation(
		listDocumentsTool.Name, instrumentation.OperationList, sc, listDocumentsHandler(sc))))

	return nil
}

// getDocumentHandler reads a single document. A 404 from the backend reads
// as "not found or access denied" so callers cannot probe for documents they
// may not see.
func getDocumentHandler(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		documentID, err := request.RequireString("document_id")
		if err != nil {
			return mcp.NewToolResultError("document_id is required"), nil
		}

		doc, err := sc.Client().GetDocument(ctx, documentID)
		if err != nil {
			return common.DocumentErrorResult(err), nil
		}

		result, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to encode document: %v", err)), nil
		}
		return mcp.NewToolResultText(string(result)), nil
	}
}

func listDocumentsHandler(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		locationArg, err := request.RequireString("location")
		if err != nil {
			return mcp.NewToolResultError("location is required"), nil
		}

		location, err := patentsafe.ParseLocation(locationArg)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid location: %s", locationArg)), nil
		}

		docs, err := sc.Client().ListDocuments(ctx, location)
		if err != nil {
			return common.DocumentErrorResult(err), nil
		}

		result, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to encode documents: %v", err)), nil
		}
		return mcp.NewToolResultText(string(result)), nil
	}
}
