// Package patentsafe provides a client for the PatentSafe document
// repository API.
//
// The client covers four endpoints:
//   - GET /connect — one-time startup handshake returning server version,
//     caller identity, and the set of searchable metadata field names
//   - GET /documents/{id} — read a single document
//   - GET /documents/list/{location} — list an intray or the library
//   - POST /documents/search — full-text search with optional author and
//     submission-date filters
//
// Authentication:
// PatentSafe issues personal authentication tokens. The client attaches the
// token as a bearer credential on every request via an oauth2 static token
// source; no refresh or re-authentication flow exists.
//
// Error handling:
// Every failed call surfaces as a classified *APIError. Callers match with
// errors.Is against the package sentinels (ErrNotFound, ErrUnauthorized,
// ErrForbidden, ErrBadRequest, ErrTransport, ErrUnexpectedStatus) instead of
// inspecting HTTP status codes. The client never retries; the caller decides
// how a failure is presented.
//
// Example usage:
//
//	client, err := patentsafe.NewClient(ctx, patentsafe.Config{
//	    BaseURL:   "https://ps.example.com",
//	    AuthToken: token,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	info, err := client.Connect(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("connected to PatentSafe %s as %s\n", info.ServerVersion, info.UserID)
//
//	doc, err := client.GetDocument(ctx, "AMPH3100012802")
//	if errors.Is(err, patentsafe.ErrNotFound) {
//	    // absent or access denied; PatentSafe does not distinguish
//	}
package patentsafe
