package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = `Available commands:
  feed | more | post | like <n> | delete <n>
  comments <n> | comment <n> | uncomment <n>
  profile [username] | follow | unfollow | followers | following | search <username>
  notifications | read <n> | readall
  whoami | logout | exit`
)

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	sessionExpired() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error

	Feed(ctx context.Context) error
	More(ctx context.Context) error
	Post(ctx context.Context) error
	Like(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Comments(ctx context.Context, args []string) error
	Comment(ctx context.Context, args []string) error
	Uncomment(ctx context.Context, args []string) error

	Profile(ctx context.Context, args []string) error
	Follow(ctx context.Context) error
	Unfollow(ctx context.Context) error
	Followers(ctx context.Context) error
	Following(ctx context.Context) error
	Search(ctx context.Context, args []string) error

	Notifications(ctx context.Context) error
	Read(ctx context.Context, args []string) error
	ReadAll(ctx context.Context) error
}

// runREPL starts a read–eval–print loop for the postit CLI.
//
// It reads a line from reader, parses the first token as the
// command and the rest as its arguments, and dispatches to methods on 'a'.
// Unknown commands are reported back to the user. The loop exits on
// EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors. When a command ends with the session expired, the user
// is taken straight to the login prompt.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("postit (%s) > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.Whoami(ctx)

		case "feed":
			_ = a.Feed(ctx)
		case "more":
			_ = a.More(ctx)
		case "post":
			_ = a.Post(ctx)
		case "like":
			_ = a.Like(ctx, args)
		case "delete":
			_ = a.Delete(ctx, args)
		case "comments":
			_ = a.Comments(ctx, args)
		case "comment":
			_ = a.Comment(ctx, args)
		case "uncomment":
			_ = a.Uncomment(ctx, args)

		case "profile":
			_ = a.Profile(ctx, args)
		case "follow":
			_ = a.Follow(ctx)
		case "unfollow":
			_ = a.Unfollow(ctx)
		case "followers":
			_ = a.Followers(ctx)
		case "following":
			_ = a.Following(ctx)
		case "search":
			_ = a.Search(ctx, args)

		case "notifications":
			_ = a.Notifications(ctx)
		case "read":
			_ = a.Read(ctx, args)
		case "readall":
			_ = a.ReadAll(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if a.sessionExpired() {
			printlnFn("Your session has expired. Please log in again.")
			_ = a.Login(ctx)
		}
	}
}
