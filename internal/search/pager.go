package search

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/amphora/patentsafe-mcp/internal/patentsafe"
)

const (
	// DefaultPageSize is the number of documents delivered per page when no
	// page size is configured.
	DefaultPageSize = 10

	// tokenLength is the length of generated continuation tokens.
	tokenLength = 32

	// tokenAlphabet is the character set for continuation tokens.
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ErrTokenNotFound indicates a continuation token that is unknown or was
// already redeemed. Tokens are single-use; a second redemption fails rather
// than silently returning an empty page.
var ErrTokenNotFound = errors.New("next page token not found or already consumed")

// Page is one window of an ordered search result sequence.
type Page struct {
	// Documents are the documents in this window, in backend relevance order
	Documents []patentsafe.Document `json:"documents"`

	// NextPageToken, when present, redeems the next window exactly once
	NextPageToken string `json:"next_page_token,omitempty"`

	// Total is the total result count reported for the whole search
	Total int `json:"total"`
}

// pendingSearch holds the undelivered remainder of one search.
type pendingSearch struct {
	documents []patentsafe.Document
	total     int
}

// Pager splits ordered result sequences into fixed-size pages addressed by
// opaque continuation tokens. It is the only stateful component of the
// gateway: entries live in memory for the process lifetime until redeemed.
// Entries are independent by token, so a single mutex around the store is
// enough to keep redemption at-most-once under concurrent tool calls.
//
// TODO: add per-entry TTL eviction; unredeemed tokens are currently retained
// until the process exits.
type Pager struct {
	mu       sync.Mutex
	pending  map[string]pendingSearch
	pageSize int
}

// NewPager creates a Pager with the given page size. Non-positive sizes fall
// back to DefaultPageSize; the size is fixed for the pager's lifetime and is
// never caller-supplied per request.
func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{
		pending:  make(map[string]pendingSearch),
		pageSize: pageSize,
	}
}

// PageSize returns the fixed page size.
func (p *Pager) PageSize() int {
	return p.pageSize
}

// Len returns the number of unredeemed continuation tokens.
func (p *Pager) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Start begins paging over a fresh result sequence. If the sequence fits in
// one page the returned page carries no token and no state is stored;
// otherwise the remainder is stored under a new continuation token.
func (p *Pager) Start(documents []patentsafe.Document, total int) (*Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paginate(documents, total)
}

// Resume redeems a continuation token. The stored remainder is removed
// atomically, so a token redeems at most once; unknown or consumed tokens
// fail with ErrTokenNotFound.
func (p *Pager) Resume(token string) (*Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.pending[token]
	if !ok {
		return nil, ErrTokenNotFound
	}
	delete(p.pending, token)

	return p.paginate(entry.documents, entry.total)
}

// paginate applies the page window to an ordered remainder. Caller holds mu.
func (p *Pager) paginate(documents []patentsafe.Document, total int) (*Page, error) {
	if len(documents) <= p.pageSize {
		return &Page{Documents: documents, Total: total}, nil
	}

	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate continuation token: %w", err)
	}

	p.pending[token] = pendingSearch{
		documents: documents[p.pageSize:],
		total:     total,
	}

	return &Page{
		Documents:     documents[:p.pageSize],
		NextPageToken: token,
		Total:         total,
	}, nil
}

// newToken generates a random alphanumeric continuation token. Tokens are
// bearer capabilities scoped to one search, not security credentials, but
// they must be unguessable enough to avoid cross-session collision.
func newToken() (string, error) {
	buf := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}
