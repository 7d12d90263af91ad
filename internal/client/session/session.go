// Package session holds the client's credentials and cached profile.
//
// A Session is the unit written on login/registration and cleared on logout
// or when reauthentication fails. Only the access credential is ever
// replaced on its own, by the refresh path of the HTTP client.
//
// The Store is injected into the API client and into every consumer; there
// is no package-level state. Manager persists to the local SQLite database,
// MemoryStore keeps everything in process.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/postit/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

// Keys under which the session is persisted.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

var ErrNoExpiry = errors.New("token has no readable expiry")

// Session is the access credential, the refresh credential and the cached
// profile of the logged-in user.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Valid reports whether the session carries an access credential.
func (s Session) Valid() bool {
	return s.AccessToken != ""
}

// Store is implemented by Manager and MemoryStore. Implementations must be
// safe for concurrent use.
type Store interface {
	AccessToken() string
	RefreshToken() string
	User() *models.User
	Snapshot() Session
	IsAuthenticated() bool

	// Save replaces all three fields at once.
	Save(ctx context.Context, s Session) error
	// SetAccessToken replaces only the access credential.
	SetAccessToken(ctx context.Context, token string) error
	// SetUser replaces only the cached profile.
	SetUser(ctx context.Context, u models.User) error
	// Clear removes all three fields at once.
	Clear(ctx context.Context) error
}

// AccessTokenExpiry reads the exp claim of a JWT access token. The signature
// is not verified: the value is only used for display.
func AccessTokenExpiry(token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, ErrNoExpiry
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, errors.Join(ErrNoExpiry, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
