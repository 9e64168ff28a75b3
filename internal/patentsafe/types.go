package patentsafe

import (
	"fmt"
	"time"
)

// Location identifies where a document lives within PatentSafe.
type Location string

// Document locations known to PatentSafe.
const (
	LocationPersonalIntray Location = "personal-intray"
	LocationGlobalIntray   Location = "global-intray"
	LocationLibrary        Location = "library"
)

// ParseLocation validates a location string and returns the typed Location.
func ParseLocation(s string) (Location, error) {
	switch Location(s) {
	case LocationPersonalIntray, LocationGlobalIntray, LocationLibrary:
		return Location(s), nil
	}
	return "", fmt.Errorf("invalid location %q (must be one of: %s, %s, %s)",
		s, LocationPersonalIntray, LocationGlobalIntray, LocationLibrary)
}

// Document represents a PatentSafe document with its metadata.
//
// MetadataValues holds backend-defined metadata fields. The set of legal
// field names is discovered via the /connect handshake and is not validated
// here; the backend is authoritative.
type Document struct {
	// ID is the stable, globally unique document identifier (e.g., "AMPH3100012802")
	ID string `json:"id"`

	// Title is the human-readable document title
	Title string `json:"title"`

	// Type is the document type tag (e.g., "experiment")
	Type string `json:"type"`

	// Text is the full text body of the document
	Text string `json:"text"`

	// CreatedDate is when the document was created
	CreatedDate time.Time `json:"createdDate"`

	// ModifiedDate is when the document was last modified
	ModifiedDate time.Time `json:"modifiedDate"`

	// Location is where the document lives (personal-intray, global-intray, library)
	Location Location `json:"location"`

	// AuthorID is the identifier of the document's owning author
	AuthorID string `json:"authorId"`

	// MetadataValues maps metadata field names to their scalar values
	MetadataValues map[string]any `json:"metadataValues,omitempty"`
}

// ServerInfo is the immutable snapshot returned by the /connect handshake.
// It is captured once at startup and read-only thereafter.
type ServerInfo struct {
	// ServerVersion is the PatentSafe server version string
	ServerVersion string `json:"serverVersion"`

	// UserID is the caller identity resolved from the auth token
	UserID string `json:"userId"`

	// ContextHeader is an opaque value the server may ask clients to forward
	ContextHeader string `json:"contextHeader"`

	// MetadataFields is the set of searchable metadata field names
	MetadataFields []string `json:"metadataFields"`
}

// SearchRequest describes one full-text search against the repository.
// Optional filters are nil/empty when unset and are omitted from the wire
// body rather than sent as null.
type SearchRequest struct {
	// LuceneQuery is the full-text query in PatentSafe's Lucene syntax
	LuceneQuery string

	// AuthorID restricts results to documents owned by this author
	AuthorID string

	// SubmissionDateRangeStart is the inclusive earliest submission instant
	SubmissionDateRangeStart *time.Time

	// SubmissionDateRangeEnd is the inclusive latest submission instant
	SubmissionDateRangeEnd *time.Time
}

// searchBody is the JSON body for POST /documents/search.
type searchBody struct {
	LuceneQuery              string `json:"luceneQuery"`
	AuthorID                 string `json:"authorId,omitempty"`
	SubmissionDateRangeStart string `json:"submissionDateRangeStart,omitempty"`
	SubmissionDateRangeEnd   string `json:"submissionDateRangeEnd,omitempty"`
}

func (r SearchRequest) body() searchBody {
	b := searchBody{
		LuceneQuery: r.LuceneQuery,
		AuthorID:    r.AuthorID,
	}
	if r.SubmissionDateRangeStart != nil {
		b.SubmissionDateRangeStart = r.SubmissionDateRangeStart.Format(time.RFC3339)
	}
	if r.SubmissionDateRangeEnd != nil {
		b.SubmissionDateRangeEnd = r.SubmissionDateRangeEnd.Format(time.RFC3339)
	}
	return b
}
