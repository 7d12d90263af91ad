// Package cli provides the interactive postit command-line client.
//
// It wires configuration, the local session database, the API client and
// the view models, then runs a REPL. A persisted session is restored and
// verified at startup; when the server rejects a refresh mid-command the
// session is cleared and the user is sent back to the login prompt.
//
// Commands that act on a post, comment or notification take its number as
// printed by the last listing, e.g. "like 2" after "feed".
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
