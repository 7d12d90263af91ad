// Package apitest runs an in-process postit backend for tests.
//
// The server keeps everything in memory, issues HS256 access tokens and
// opaque refresh tokens, and exposes knobs to expire tokens, reject or delay
// refresh exchanges, and fail selected requests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/postit/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	// BasePath is where the API is mounted, as in the real backend.
	BasePath = "/api"

	accessTokenValidity = time.Hour
)

// Request is one request as seen by the server.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

type account struct {
	user     models.User
	password string
}

type failure struct {
	status  int
	message string
}

type Server struct {
	srv    *httptest.Server
	secret []byte

	mu            sync.Mutex
	accounts      map[string]*account
	posts         []*models.Post
	likes         map[string]map[string]bool
	comments      map[string][]*models.Comment
	follows       map[string]map[string]bool
	notifications map[string][]*models.Notification
	refreshTokens map[string]string
	failures      map[string][]failure
	requests      []Request

	epoch         atomic.Int64
	refreshCalls  atomic.Int64
	rejectRefresh atomic.Bool
	refreshDelay  atomic.Int64
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		secret:        []byte(uuid.NewString()),
		accounts:      make(map[string]*account),
		likes:         make(map[string]map[string]bool),
		comments:      make(map[string][]*models.Comment),
		follows:       make(map[string]map[string]bool),
		notifications: make(map[string][]*models.Notification),
		refreshTokens: make(map[string]string),
		failures:      make(map[string][]failure),
	}
	s.srv = httptest.NewServer(s.routes())
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the API root to hand to client.NewClient.
func (s *Server) URL() string {
	return s.srv.URL + BasePath
}

// Close stops the server; later requests fail at the transport.
func (s *Server) Close() {
	s.srv.Close()
}

// CreateUser seeds an account and returns its profile.
func (s *Server) CreateUser(username, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createUserLocked(username, username+"@example.com", password, "")
}

// IssueTokens returns a fresh access token and a new refresh token for the
// user.
func (s *Server) IssueTokens(userID string) (access, refresh string) {
	access, err := GenerateToken(userID, s.epoch.Load(), s.secret, accessTokenValidity)
	if err != nil {
		panic(err)
	}
	refresh = uuid.NewString()

	s.mu.Lock()
	s.refreshTokens[refresh] = userID
	s.mu.Unlock()
	return access, refresh
}

// ExpireAccessTokens invalidates every access token issued so far.
func (s *Server) ExpireAccessTokens() {
	s.epoch.Add(1)
}

// RefreshCalls counts POST /auth/refresh requests.
func (s *Server) RefreshCalls() int64 {
	return s.refreshCalls.Load()
}

// RejectRefresh makes refresh exchanges fail with 401.
func (s *Server) RejectRefresh(reject bool) {
	s.rejectRefresh.Store(reject)
}

// SetRefreshDelay holds each refresh exchange for d before answering.
func (s *Server) SetRefreshDelay(d time.Duration) {
	s.refreshDelay.Store(int64(d))
}

// FailNext makes the next request to method and path (relative to the API
// root, e.g. "/posts/42/like") fail with status and message.
func (s *Server) FailNext(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, message: message})
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the requests received for method and path.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Post returns the stored post, or false.
func (s *Server) Post(id string) (models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.findPostLocked(id); p != nil {
		return *p, true
	}
	return models.Post{}, false
}

func (s *Server) createUserLocked(username, email, password, displayName string) models.User {
	u := models.User{
		ID:          uuid.NewString(),
		Username:    username,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   models.NewTimestamp(time.Now()),
	}
	s.accounts[u.ID] = &account{user: u, password: password}
	return u
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record, s.injectFailures)

	r.Route(BasePath, func(r chi.Router) {
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)
		r.Post("/auth/refresh", s.refresh)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Post("/auth/logout", s.logout)

			r.Get("/users/me", s.me)
			r.Get("/users/{id}", s.userByUsername)
			r.Post("/users/{id}/follow", s.follow)
			r.Delete("/users/{id}/follow", s.unfollow)
			r.Get("/users/{id}/followers", s.followers)
			r.Get("/users/{id}/following", s.following)
			r.Get("/users/{id}/follow-status", s.followStatus)

			r.Post("/posts", s.createPost)
			r.Get("/posts/feed", s.feed)
			r.Get("/posts/user/{id}", s.userPosts)
			r.Get("/posts/{id}", s.post)
			r.Delete("/posts/{id}", s.deletePost)
			r.Post("/posts/{id}/like", s.like)
			r.Delete("/posts/{id}/like", s.unlike)
			r.Post("/posts/{id}/comments", s.addComment)
			r.Get("/posts/{id}/comments", s.listComments)
			r.Delete("/posts/comments/{id}", s.deleteComment)

			r.Get("/notifications", s.listNotifications)
			r.Get("/notifications/unread", s.unreadNotifications)
			r.Get("/notifications/unread-count", s.unreadCount)
			r.Put("/notifications/read-all", s.markAllRead)
			r.Put("/notifications/{id}/read", s.markRead)
		})
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          strings.TrimPrefix(r.URL.Path, BasePath),
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, BasePath)

		s.mu.Lock()
		queue := s.failures[key]
		var f *failure
		if len(queue) > 0 {
			f = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if f != nil {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError answers with the backend's error body shape.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"status":    status,
		"error":     http.StatusText(status),
		"message":   message,
		"timestamp": time.Now().Format("2006-01-02T15:04:05"),
	})
}

func notFoundMessage(what, id string) string {
	return fmt.Sprintf("%s not found with id: %s", what, id)
}
