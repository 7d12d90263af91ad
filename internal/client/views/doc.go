// Package views holds the client-side state behind each screen: the feed,
// a profile, a post's comments, notifications and user search.
//
// Paginated state lives in List. Every load carries a generation number and a
// response that is no longer the latest is dropped with ErrSuperseded, so a
// slow answer can never overwrite a newer one. Likes and follows are applied
// locally before the request is sent and rolled back if it fails.
package views
