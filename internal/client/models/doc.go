// Package models defines the client-side view models mirrored from the
// postit API: users, posts, comments, notifications, the authentication
// response and the paginated envelope shared by every list endpoint.
//
// Models are transient: they are rebuilt from API responses on every load
// and only mutated locally by the view layer (likes, comment counts, read
// flags).
package models
