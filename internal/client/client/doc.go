// Package client is the HTTP client of the postit API.
//
// # Overview
//
// Client builds requests against a configurable base URL and runs every
// call through the authenticated pipeline:
//
//  1. Attach: the current access token from the injected session.Store is
//     sent as a bearer credential; without one the call goes out
//     unauthenticated.
//  2. Reauthenticate: a 401 on a call that has not been retried exchanges
//     the refresh token for a new access token and replays the call once.
//     Concurrent exchanges are coalesced into one. When the exchange is
//     rejected the session is cleared and the session-expired handler runs.
//
// Any other status is returned to the caller untouched as an *APIError.
//
// Facade methods (Login, Feed, Like, ...) map one operation to one HTTP
// method and path. Paginated calls decode into models.Page.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors for errors.Is: ErrUnavailable,
// ErrUnauthorized, ErrForbidden, ErrNotFound, ErrSessionExpired. Message
// extracts a user-facing text from any error.
package client
