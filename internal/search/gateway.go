package search

import (
	"context"

	"github.com/amphora/patentsafe-mcp/internal/patentsafe"
)

// Searcher is the backend surface the gateway needs.
type Searcher interface {
	SearchDocuments(ctx context.Context, req patentsafe.SearchRequest) ([]patentsafe.Document, error)
}

// Gateway runs searches against the backend and pages the results. It owns
// the Pager; no paging state lives outside this value.
type Gateway struct {
	client Searcher
	pager  *Pager
}

// NewGateway creates a Gateway paging results at the given fixed page size.
func NewGateway(client Searcher, pageSize int) *Gateway {
	return &Gateway{
		client: client,
		pager:  NewPager(pageSize),
	}
}

// Search runs one backend search and returns the first page. The backend's
// relevance order is preserved; the gateway never re-sorts. Backend failures
// pass through classified (patentsafe.ErrBadRequest for a rejected query,
// patentsafe.ErrUnauthorized, ...) and leave no paging state behind.
func (g *Gateway) Search(ctx context.Context, req patentsafe.SearchRequest) (*Page, error) {
	documents, err := g.client.SearchDocuments(ctx, req)
	if err != nil {
		return nil, err
	}
	return g.pager.Start(documents, len(documents))
}

// Resume redeems a continuation token for the next page. Fails with
// ErrTokenNotFound when the token is unknown or already consumed.
func (g *Gateway) Resume(token string) (*Page, error) {
	return g.pager.Resume(token)
}

// PendingSearches returns the number of searches with undelivered pages.
func (g *Gateway) PendingSearches() int {
	return g.pager.Len()
}
