package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	expired  bool

	calls []string
}

func (f *fakeExec) record(name string, args ...string) error {
	if len(args) > 0 {
		name += " " + strings.Join(args, " ")
	}
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) sessionExpired() bool {
	e := f.expired
	f.expired = false
	return e
}

func (f *fakeExec) Register(ctx context.Context) error { return f.record("register") }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Whoami(ctx context.Context) error { return f.record("whoami") }

func (f *fakeExec) Feed(ctx context.Context) error { return f.record("feed") }
func (f *fakeExec) More(ctx context.Context) error { return f.record("more") }
func (f *fakeExec) Post(ctx context.Context) error { return f.record("post") }
func (f *fakeExec) Like(ctx context.Context, args []string) error {
	return f.record("like", args...)
}
func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	return f.record("delete", args...)
}
func (f *fakeExec) Comments(ctx context.Context, args []string) error {
	return f.record("comments", args...)
}
func (f *fakeExec) Comment(ctx context.Context, args []string) error {
	return f.record("comment", args...)
}
func (f *fakeExec) Uncomment(ctx context.Context, args []string) error {
	return f.record("uncomment", args...)
}

func (f *fakeExec) Profile(ctx context.Context, args []string) error {
	return f.record("profile", args...)
}
func (f *fakeExec) Follow(ctx context.Context) error    { return f.record("follow") }
func (f *fakeExec) Unfollow(ctx context.Context) error  { return f.record("unfollow") }
func (f *fakeExec) Followers(ctx context.Context) error { return f.record("followers") }
func (f *fakeExec) Following(ctx context.Context) error { return f.record("following") }
func (f *fakeExec) Search(ctx context.Context, args []string) error {
	return f.record("search", args...)
}

func (f *fakeExec) Notifications(ctx context.Context) error { return f.record("notifications") }
func (f *fakeExec) Read(ctx context.Context, args []string) error {
	return f.record("read", args...)
}
func (f *fakeExec) ReadAll(ctx context.Context) error { return f.record("readall") }

// capturePrintln collects REPL output for the duration of the test.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func script(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, script(
		"help",
		"login",
		"help",
		"feed",
		"more",
		"  LIKE 2  ",
		"comments 1",
		"comment 1",
		"uncomment 3",
		"delete 4",
		"post",
		"profile alice",
		"follow",
		"unfollow",
		"followers",
		"following",
		"search bob",
		"notifications",
		"read 1",
		"readall",
		"whoami",
		"",
		"foobar",
		"logout",
		"exit",
		"feed",
	))

	require.Equal(t, []string{
		"login", "feed", "more", "like 2", "comments 1", "comment 1", "uncomment 3",
		"delete 4", "post", "profile alice", "follow", "unfollow", "followers",
		"following", "search bob", "notifications", "read 1", "readall", "whoami", "logout",
	}, exec.calls)

	joined := strings.Join(*out, "")
	assert.Contains(t, joined, helpLoggedOut)
	assert.Contains(t, joined, helpLoggedIn)
	assert.Contains(t, joined, "Unknown command: foobar")
	assert.Contains(t, joined, "postit (status) > ")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_QuitAndEOF(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, script("quit", "feed"))
	require.Empty(t, exec.calls)

	// last line without newline still runs, then EOF ends the loop
	exec = &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, script("feed"))
	require.Equal(t, []string{"feed"}, exec.calls)
}

func TestRunREPL_ExpiredSessionPromptsLogin(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{loggedIn: true, expired: true}
	runREPL(context.Background(), exec, func() string { return "s" }, script("feed", "whoami", "exit"))

	require.Equal(t, []string{"feed", "login", "whoami"}, exec.calls)
	assert.Contains(t, strings.Join(*out, ""), "Your session has expired")
}
