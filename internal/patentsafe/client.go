package patentsafe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	// apiPrefix is appended to the base URL for all API calls.
	apiPrefix = "/api/mcp"

	// DefaultTimeout bounds each backend request.
	DefaultTimeout = 30 * time.Second

	// maxErrorBodySize limits how much of an error response body is read
	// into the classified error message.
	maxErrorBodySize = 4096
)

// Config holds the settings needed to talk to a PatentSafe server.
type Config struct {
	// BaseURL is the PatentSafe base URL (e.g., "https://ps.example.com")
	BaseURL string

	// AuthToken is the personal authentication token issued by PatentSafe
	AuthToken string

	// Timeout bounds each request; DefaultTimeout when zero
	Timeout time.Duration
}

// Client provides access to the PatentSafe document repository API.
// It attaches the bearer token on every call and classifies HTTP outcomes
// into typed errors. It performs no retries and holds no request state.
type Client struct {
	baseURL    string
	apiBase    string
	httpClient *http.Client
}

// NewClient creates a PatentSafe client for the given configuration.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if cfg.AuthToken == "" {
		return nil, fmt.Errorf("auth token cannot be empty")
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	// oauth2's static token source gives us a client that injects
	// "Authorization: Bearer <token>" on every request.
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AuthToken})
	httpClient := oauth2.NewClient(ctx, src)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    base,
		apiBase:    base + apiPrefix,
		httpClient: httpClient,
	}, nil
}

// BaseURL returns the configured PatentSafe base URL without the API prefix.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Connect performs the one-time startup handshake against /connect and
// returns the frozen server snapshot. Callers treat a failure here as fatal.
func (c *Client) Connect(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.doJSON(ctx, http.MethodGet, "/connect", nil, &info, "connect"); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetDocument fetches a single document by its ID.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*Document, error) {
	if documentID == "" {
		return nil, fmt.Errorf("document ID cannot be empty")
	}

	var doc Document
	path := "/documents/" + url.PathEscape(documentID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &doc, "getDocument"); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments lists the documents in the given location.
func (c *Client) ListDocuments(ctx context.Context, location Location) ([]Document, error) {
	var docs []Document
	path := "/documents/list/" + url.PathEscape(string(location))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &docs, "listDocuments"); err != nil {
		return nil, err
	}
	return docs, nil
}

// SearchDocuments runs a full-text search and returns the raw result
// sequence in the backend's relevance order. Pagination is the caller's
// concern; this method never truncates.
func (c *Client) SearchDocuments(ctx context.Context, req SearchRequest) ([]Document, error) {
	var docs []Document
	if err := c.doJSON(ctx, http.MethodPost, "/documents/search", req.body(), &docs, "search"); err != nil {
		return nil, err
	}
	return docs, nil
}

// doJSON issues one request against the API base and decodes a JSON
// response into out. Non-2xx statuses and network failures come back as
// classified *APIError values.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, op string) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("patentsafe %s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, reqBody)
	if err != nil {
		return fmt.Errorf("patentsafe %s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Op: op, Kind: ErrTransport, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &APIError{
			Op:         op,
			Kind:       classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("patentsafe %s: decode response: %w", op, err)
		}
	}
	return nil
}
