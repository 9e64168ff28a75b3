package search_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/amphora/patentsafe-mcp/internal/describe"
	"github.com/amphora/patentsafe-mcp/internal/instrumentation"
	"github.com/amphora/patentsafe-mcp/internal/patentsafe"
	"github.com/amphora/patentsafe-mcp/internal/search"
	"github.com/amphora/patentsafe-mcp/internal/server"
	"github.com/amphora/patentsafe-mcp/internal/tools/common"
)

// searchDocumentsDescription is rendered at registration time: the metadata
// field vocabulary and the citation base URL come from the startup handshake.
const searchDocumentsDescription = `Search for documents using full text search using a Lucene query string as well as optionally filtering by metadata.

If the search returns too many results, you will receive a pagination token that you can use to get the next page of results using the search_documents_next_page tool. You can continue to call this tool until you have received all the results.

When mentioning a document you MUST make its ID a Markdown link. You can determine the URL of the document from its ID by using the following pattern: %%BASE_URL%%/ps/experiment/view/<document_id>. For example, if the document ID is 12345, the citation style link would be [12345](%%BASE_URL%%/ps/experiment/view/12345).

If you are using the information from a document you MUST include a citation to the document, built the same way.

The simplest query is simply the text you want to search for, for example "red cabbage". To combine queries join them with AND to search for documents containing both terms (for example "red cabbage AND green beans"), or use OR to search for documents containing either term (for example "red cabbage OR green beans").

Metadata tags can be searched for with the filter tag-$NAME:..., for example tag-rating:5. The list of available metadata fields is: %%METADATA_FIELDS%%`

const nextPageDescription = `Get the next page of results from a previous search_documents call. Each pagination token is valid for a single use; the returned page carries a fresh token when further results remain.`

// RegisterSearchTools registers the search and pagination tools with the MCP
// server. The search_documents description is rendered against the handshake
// result so the live metadata vocabulary and citation URL appear verbatim;
// a template marker left unsubstituted fails registration.
func RegisterSearchTools(s *mcpserver.MCPServer, sc *server.ServerContext, prefix string) error {
	info := sc.ServerInfo()
	if info == nil {
		return fmt.Errorf("server info is required to register search tools")
	}

	description, err := describe.Render(searchDocumentsDescription, describe.Values{
		BaseURL:        sc.Client().BaseURL(),
		MetadataFields: info.MetadataFields,
	})
	if err != nil {
		return fmt.Errorf("failed to render search_documents description: %w", err)
	}

	searchTool := mcp.NewTool(common.PrefixedToolName(prefix, "search_documents"),
		mcp.WithDescription(description),
		mcp.WithString("lucene_query",
			mcp.Required(),
			mcp.Description("The Lucene query string to use for full text search"),
		),
		mcp.WithString("author_id",
			mcp.Description("Optional unique identifier of the author to filter documents by. If provided, only returns documents authored by this person."),
		),
		mcp.WithString("submission_date_range_start",
			mcp.Description(`Optional earliest submission date to include in results, in ISO 8601 format (e.g. "2023-01-01T00:00:00Z"). Documents submitted before this date will be excluded.`),
		),
		mcp.WithString("submission_date_range_end",
			mcp.Description(`Optional latest submission date to include in results, in ISO 8601 format (e.g. "2023-12-31T23:59:59Z"). Documents submitted after this date will be excluded.`),
		),
	)

	s.AddTool(searchTool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandlerWithOperation(
		searchTool.Name, instrumentation.OperationSearch, sc, searchDocumentsHandler(sc))))

	nextPageTool := mcp.NewTool(common.PrefixedToolName(prefix, "search_documents_next_page"),
		mcp.WithDescription(nextPageDescription),
		mcp.WithString("next_page_token",
			mcp.Required(),
			mcp.Description("The pagination token returned by a previous search_documents or search_documents_next_page call"),
		),
	)

	s.AddTool(nextPageTool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandlerWithOperation(
		nextPageTool.Name, instrumentation.OperationResume, sc, nextPageHandler(sc))))

	return nil
}

func searchDocumentsHandler(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		luceneQuery, err := request.RequireString("lucene_query")
		if err != nil {
			return mcp.NewToolResultError("lucene_query is required"), nil
		}

		req := patentsafe.SearchRequest{
			LuceneQuery: luceneQuery,
			AuthorID:    request.GetString("author_id", ""),
		}

		if raw := request.GetString("submission_date_range_start", ""); raw != "" {
			start, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid submission_date_range_start: %q is not an ISO 8601 timestamp", raw)), nil
			}
			req.SubmissionDateRangeStart = &start
		}

		if raw := request.GetString("submission_date_range_end", ""); raw != "" {
			end, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid submission_date_range_end: %q is not an ISO 8601 timestamp", raw)), nil
			}
			req.SubmissionDateRangeEnd = &end
		}

		page, err := sc.Gateway().Search(ctx, req)
		if err != nil {
			return common.SearchErrorResult(err), nil
		}

		return pageResult(ctx, sc, page)
	}
}

func nextPageHandler(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		token, err := request.RequireString("next_page_token")
		if err != nil {
			return mcp.NewToolResultError("next_page_token is required"), nil
		}

		page, err := sc.Gateway().Resume(token)
		if err != nil {
			return common.SearchErrorResult(err), nil
		}

		// The redeemed token is gone; pageResult accounts for any replacement.
		if metrics := sc.Metrics(); metrics != nil {
			metrics.AddPendingSearches(ctx, -1)
		}

		return pageResult(ctx, sc, page)
	}
}

// pageResult encodes a search page and records pagination metrics: every
// delivered page counts, and a continuation token adds to the pending gauge.
func pageResult(ctx context.Context, sc *server.ServerContext, page *search.Page) (*mcp.CallToolResult, error) {
	if metrics := sc.Metrics(); metrics != nil {
		terminal := page.NextPageToken == ""
		metrics.RecordSearchPage(ctx, terminal)
		if !terminal {
			metrics.AddPendingSearches(ctx, 1)
		}
	}

	result, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode search results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(result)), nil
}
