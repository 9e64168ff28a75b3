package search_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/amphora/patentsafe-mcp/internal/describe"
	"github.com/amphora/patentsafe-mcp/internal/patentsafe"
	"github.com/amphora/patentsafe-mcp/internal/search"
	"github.com/amphora/patentsafe-mcp/internal/server"
)

func newTestContext(t *testing.T, handler http.HandlerFunc) *server.ServerContext {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client, err := patentsafe.NewClient(context.Background(), patentsafe.Config{
		BaseURL:   ts.URL,
		AuthToken: "test-token",
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	info := &patentsafe.ServerInfo{
		ServerVersion:  "7.2",
		UserID:         "ada",
		MetadataFields: []string{"project", "witness", "rating"},
	}

	sc := server.NewServerContext(context.Background(), client, info, 10)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

// searchBackend serves n generated documents from the search endpoint.
func searchBackend(t *testing.T, n int) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/mcp/documents/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		docs := make([]map[string]any, n)
		for i := range docs {
			docs[i] = map[string]any{
				"id":           fmt.Sprintf("DOC-%03d", i),
				"title":        fmt.Sprintf("Document %d", i),
				"type":         "experiment",
				"text":         "",
				"createdDate":  "2024-03-01T09:00:00Z",
				"modifiedDate": "2024-03-01T09:00:00Z",
				"location":     "library",
				"authorId":     "ada",
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(docs)
	}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected result with content")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func decodePage(t *testing.T, result *mcp.CallToolResult) search.Page {
	t.Helper()

	if result.IsError {
		t.Fatalf("expected success, got error result: %s", resultText(t, result))
	}
	var page search.Page
	if err := json.Unmarshal([]byte(resultText(t, result)), &page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	return page
}

func TestSearchDocumentsHandlerSinglePage(t *testing.T) {
	sc := newTestContext(t, searchBackend(t, 3))

	handler := searchDocumentsHandler(sc)
	result, err := handler(context.Background(), callRequest(map[string]any{"lucene_query": "red cabbage"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	page := decodePage(t, result)
	if len(page.Documents) != 3 {
		t.Errorf("expected 3 documents, got %d", len(page.Documents))
	}
	if page.NextPageToken != "" {
		t.Errorf("expected no continuation token, got %q", page.NextPageToken)
	}
	if page.Total != 3 {
		t.Errorf("expected total 3, got %d", page.Total)
	}
}

func TestSearchPaginationWalk(t *testing.T) {
	sc := newTestContext(t, searchBackend(t, 25))

	searchHandler := searchDocumentsHandler(sc)
	nextHandler := nextPageHandler(sc)
	ctx := context.Background()

	result, err := searchHandler(ctx, callRequest(map[string]any{"lucene_query": "nucleation"}))
	if err != nil {
		t.Fatalf("search handler returned error: %v", err)
	}
	page := decodePage(t, result)
	if len(page.Documents) != 10 || page.Total != 25 {
		t.Fatalf("first page: %d documents, total %d", len(page.Documents), page.Total)
	}
	if page.NextPageToken == "" {
		t.Fatal("expected a continuation token on the first page")
	}
	firstToken := page.NextPageToken

	// Walk the remaining pages
	var seen []string
	for _, doc := range page.Documents {
		seen = append(seen, doc.ID)
	}
	token := firstToken
	for token != "" {
		result, err = nextHandler(ctx, callRequest(map[string]any{"next_page_token": token}))
		if err != nil {
			t.Fatalf("next page handler returned error: %v", err)
		}
		page = decodePage(t, result)
		for _, doc := range page.Documents {
			seen = append(seen, doc.ID)
		}
		token = page.NextPageToken
	}

	if len(seen) != 25 {
		t.Fatalf("expected 25 documents across all pages, got %d", len(seen))
	}
	for i, id := range seen {
		if want := fmt.Sprintf("DOC-%03d", i); id != want {
			t.Errorf("document %d = %s, want %s", i, id, want)
		}
	}

	// The first token was consumed by the walk; redeeming it again fails
	result, err = nextHandler(ctx, callRequest(map[string]any{"next_page_token": firstToken}))
	if err != nil {
		t.Fatalf("next page handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for a consumed token")
	}
	if got := resultText(t, result); !strings.Contains(got, "Unknown or already used page token") {
		t.Errorf("result text = %q", got)
	}
}

func TestSearchDocumentsHandlerForwardsFilters(t *testing.T) {
	var gotBody map[string]any
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode search body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	handler := searchDocumentsHandler(sc)
	_, err := handler(context.Background(), callRequest(map[string]any{
		"lucene_query":                "tag-rating:5",
		"author_id":                   "ada",
		"submission_date_range_start": "2023-01-01T00:00:00Z",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if gotBody["luceneQuery"] != "tag-rating:5" {
		t.Errorf("luceneQuery = %v", gotBody["luceneQuery"])
	}
	if gotBody["authorId"] != "ada" {
		t.Errorf("authorId = %v", gotBody["authorId"])
	}
	if gotBody["submissionDateRangeStart"] != "2023-01-01T00:00:00Z" {
		t.Errorf("submissionDateRangeStart = %v", gotBody["submissionDateRangeStart"])
	}
	if _, present := gotBody["submissionDateRangeEnd"]; present {
		t.Error("submissionDateRangeEnd should be absent when not supplied")
	}
}

func TestSearchDocumentsHandlerInvalidDate(t *testing.T) {
	sc := newTestContext(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("backend should not be called for an invalid date")
		w.WriteHeader(http.StatusInternalServerError)
	})

	handler := searchDocumentsHandler(sc)
	result, err := handler(context.Background(), callRequest(map[string]any{
		"lucene_query":                "cabbage",
		"submission_date_range_start": "yesterday",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if got := resultText(t, result); !strings.Contains(got, "Invalid submission_date_range_start") {
		t.Errorf("result text = %q", got)
	}
}

func TestSearchDocumentsHandlerInvalidQuery(t *testing.T) {
	sc := newTestContext(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unbalanced parenthesis", http.StatusBadRequest)
	})

	handler := searchDocumentsHandler(sc)
	result, err := handler(context.Background(), callRequest(map[string]any{"lucene_query": "((cabbage"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if got := resultText(t, result); got != "Invalid search query: unbalanced parenthesis" {
		t.Errorf("result text = %q", got)
	}
}

func TestRegisterSearchTools(t *testing.T) {
	sc := newTestContext(t, searchBackend(t, 0))

	s := mcpserver.NewMCPServer("test", "0.0.0")
	if err := RegisterSearchTools(s, sc, ""); err != nil {
		t.Fatalf("RegisterSearchTools() error = %v", err)
	}
}

func TestRegisterSearchToolsRequiresServerInfo(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil, nil, 10)
	defer sc.Shutdown()

	s := mcpserver.NewMCPServer("test", "0.0.0")
	if err := RegisterSearchTools(s, sc, ""); err == nil {
		t.Fatal("expected error when registering without server info")
	}
}

func TestSearchDescriptionRenders(t *testing.T) {
	rendered, err := describe.Render(searchDocumentsDescription, describe.Values{
		BaseURL:        "https://ps.example.com",
		MetadataFields: []string{"witness", "project"},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if strings.Contains(rendered, "%%") {
		t.Errorf("rendered description still contains template markers:\n%s", rendered)
	}
	if !strings.Contains(rendered, "https://ps.example.com/ps/experiment/view/") {
		t.Error("rendered description missing citation URL pattern")
	}
	if !strings.Contains(rendered, "project, witness") {
		t.Error("rendered description missing sorted metadata fields")
	}
}
