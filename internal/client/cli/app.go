package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/postit/internal/client/client"
	"github.com/dmitrijs2005/postit/internal/client/config"
	"github.com/dmitrijs2005/postit/internal/client/services"
	"github.com/dmitrijs2005/postit/internal/client/session"
	"github.com/dmitrijs2005/postit/internal/client/views"
	"github.com/dmitrijs2005/postit/internal/logging"
)

var (
	errNeedLogin   = errors.New("please log in first")
	errNeedListing = errors.New("nothing listed")
	errNotOwner    = errors.New("not the author")
)

// listing is what "more" extends.
type listing int

const (
	listingNone listing = iota
	listingFeed
	listingProfile
	listingComments
	listingNotifications
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	store  session.Store
	api    *client.Client
	auth   services.AuthService

	feed          *views.Feed
	profile       *views.Profile
	comments      *views.Comments
	notifications *views.Notifications
	search        *views.Search

	active listing
	// posts is the post list numbered by like, delete and comments
	posts *views.Posts

	reader  *bufio.Reader
	out     io.Writer
	now     func() time.Time
	expired atomic.Bool
}

// NewApp opens the session database, restores the cached session into
// memory and builds the API client and views.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.New(os.Stderr, cfg.LogLevel)

	db, err := session.OpenDatabase(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, err
	}

	store := session.NewManager(db, log)
	if _, err := store.Load(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load session: %w", err)
	}

	a, err := newApp(cfg, store, log, os.Stdin, os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.db = db
	return a, nil
}

func newApp(cfg *config.Config, store session.Store, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	a := &App{
		config: cfg,
		log:    log,
		store:  store,
		reader: bufio.NewReader(in),
		out:    out,
		now:    time.Now,
	}

	api, err := client.NewClient(cfg.APIBaseURL, store,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(log),
		client.WithSessionExpiredHandler(a.onSessionExpired),
	)
	if err != nil {
		return nil, err
	}
	a.api = api
	a.auth = services.NewAuthService(api, store, log)
	a.resetViews()
	return a, nil
}

func (a *App) resetViews() {
	size := a.config.PageSize
	a.feed = views.NewFeed(a.api, size)
	a.profile = views.NewProfile(a.api, a.store.User, size)
	a.notifications = views.NewNotifications(a.api, size)
	a.search = views.NewSearch(a.api)
	a.comments = nil
	a.posts = nil
	a.active = listingNone
}

func (a *App) onSessionExpired(ctx context.Context, err error) {
	a.log.Info(ctx, "session expired", "error", err)
	a.expired.Store(true)
}

// sessionExpired reports, once, that the session was cleared by a rejected
// refresh.
func (a *App) sessionExpired() bool {
	return a.expired.Swap(false)
}

// Run restores the session and runs the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.println("Welcome to postit (type 'help' for commands)")
	a.restore(ctx)

	// prompts inside commands read from the same buffered reader
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() {
	_ = a.api.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) restore(ctx context.Context) {
	u, err := a.auth.Restore(ctx)
	switch {
	case err == nil:
		a.println(fmt.Sprintf("Logged in as @%s", u.Username))
	case errors.Is(err, services.ErrNotLoggedIn):
		// a bare ErrNotLoggedIn means there was no stored session at all
		if a.sessionExpired() || err != services.ErrNotLoggedIn {
			a.println("Your session has expired. Please log in again.")
		}
	default:
		a.fail(err, "Could not verify your session")
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

func (a *App) status() string {
	if u := a.store.User(); u != nil {
		return "@" + u.Username
	}
	return "logged out"
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// fail reports err to the user and returns it. Superseded loads are silent.
func (a *App) fail(err error, fallback string) error {
	if errors.Is(err, views.ErrSuperseded) {
		return err
	}
	a.println("Error:", client.Message(err, fallback))
	return err
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		a.println("Please log in first (login or register).")
		return errNeedLogin
	}
	return nil
}

// index parses a 1-based item number from args.
func (a *App) index(args []string, usage string, n int) (int, error) {
	if len(args) == 0 {
		a.println("Usage:", usage)
		return 0, fmt.Errorf("missing argument")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 1 || i > n {
		a.println(fmt.Sprintf("No item %q. Usage: %s", args[0], usage))
		return 0, fmt.Errorf("bad index %q", args[0])
	}
	return i - 1, nil
}
