package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/dmitrijs2005/postit/internal/client/apitest"
	"github.com/dmitrijs2005/postit/internal/client/models"
	"github.com/dmitrijs2005/postit/internal/client/session"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *apitest.Server, store session.Store, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(srv.URL(), store, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// loginAs seeds a user on srv and stores a full session for it.
func loginAs(t *testing.T, srv *apitest.Server, store session.Store, username string) models.User {
	t.Helper()
	u := srv.CreateUser(username, "secret123")
	access, refresh := srv.IssueTokens(u.ID)
	require.NoError(t, store.Save(context.Background(), session.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         &u,
	}))
	return u
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// failingRefreshTransport fails POST /auth/refresh at the transport level and
// forwards everything else.
func failingRefreshTransport() http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if strings.HasSuffix(r.URL.Path, "/auth/refresh") {
			return nil, errors.New("connection reset by peer")
		}
		return http.DefaultTransport.RoundTrip(r)
	})
}
