// Package search implements the search gateway and its pagination engine.
//
// A search against PatentSafe returns the complete ordered result sequence
// in one backend response. To keep individual tool responses bounded, the
// gateway delivers results in fixed-size pages: the first page comes back
// from Search, and when more results remain it carries an opaque
// continuation token that redeems the next page via Resume.
//
// Contract:
//   - The concatenation of all pages delivered for one search, in
//     token-redemption order, equals the backend's result sequence exactly
//     once each: no duplication, no omission, no reordering.
//   - Tokens redeem at most once. Redeeming a consumed or unknown token
//     fails with ErrTokenNotFound rather than returning an empty page, so
//     callers can detect misuse.
//   - The page size is a server-wide constant fixed at startup, which bounds
//     the stored remainder to one entry per outstanding search.
//
// The token store lives in memory for the process lifetime. Entries have no
// expiry; see the Pager TODO.
package search
