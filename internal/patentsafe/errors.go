package patentsafe

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for classifying backend failures. Wrap-aware callers use
// errors.Is against these rather than inspecting status codes.
var (
	// ErrNotFound indicates a 404 response. PatentSafe deliberately returns
	// 404 for both absent documents and documents the caller may not read.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a 401 response (invalid or expired token).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates a 403 response.
	ErrForbidden = errors.New("forbidden")

	// ErrBadRequest indicates a 400 response; the backend message is
	// carried in the APIError.
	ErrBadRequest = errors.New("bad request")

	// ErrTransport indicates a network-level failure (connection refused,
	// timeout) before any HTTP status was received.
	ErrTransport = errors.New("transport failure")

	// ErrUnexpectedStatus indicates any other non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// APIError is the classified error returned for any failed backend call.
type APIError struct {
	// Op is the operation that failed (e.g., "connect", "getDocument", "search")
	Op string

	// Kind is the classification sentinel (ErrNotFound, ErrUnauthorized, ...)
	Kind error

	// StatusCode is the HTTP status, or 0 for transport failures
	StatusCode int

	// Message is the response body for 4xx responses, where the backend
	// includes a human-readable reason (notably 400 on bad queries)
	Message string

	// Err is the underlying error, if any
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("patentsafe %s: %v (status %d): %s", e.Op, e.Kind, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("patentsafe %s: %v: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("patentsafe %s: %v (status %d)", e.Op, e.Kind, e.StatusCode)
	}
}

// Unwrap exposes the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches one of the classification sentinels.
func (e *APIError) Is(target error) bool {
	return e.Kind == target
}

// classifyStatus maps an HTTP status code to a classification sentinel.
func classifyStatus(status int) error {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusBadRequest:
		return ErrBadRequest
	default:
		return ErrUnexpectedStatus
	}
}
