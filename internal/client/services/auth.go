// Package services contains application services for the postit client.
// This file defines the authentication service: register, login, logout and
// restoring a persisted session at startup.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/postit/internal/client/client"
	"github.com/dmitrijs2005/postit/internal/client/models"
	"github.com/dmitrijs2005/postit/internal/client/session"
	"github.com/dmitrijs2005/postit/internal/logging"
)

// ErrNotLoggedIn is returned when an operation needs a session and there is
// none, or the persisted one was rejected.
var ErrNotLoggedIn = errors.New("not logged in")

// AuthAPI is the part of the API client the auth service needs.
type AuthAPI interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register, Login: validate the form, call the API and save the returned
//     session in one step.
//   - Logout: tell the server, then clear the local session regardless of the
//     outcome.
//   - Restore: verify a persisted session against /users/me.
//   - CurrentUser: cached profile, nil when logged out.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (*models.User, error)
	CurrentUser() *models.User
	TokenExpiry() (time.Time, error)
}

type authService struct {
	api   AuthAPI
	store session.Store
	log   logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API and
// session store.
func NewAuthService(api AuthAPI, store session.Store, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{api: api, store: store, log: log.With("component", "auth")}
}

func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	resp, err := a.api.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return a.establish(ctx, resp)
}

func (a *authService) Login(ctx context.Context, usernameOrEmail, password string) (*models.User, error) {
	req := models.LoginRequest{UsernameOrEmail: usernameOrEmail, Password: password}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	resp, err := a.api.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return a.establish(ctx, resp)
}

// establish saves the three session fields of an auth response together.
func (a *authService) establish(ctx context.Context, resp *models.AuthResponse) (*models.User, error) {
	u := resp.User
	if err := a.store.Save(ctx, session.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         &u,
	}); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	a.log.Info(ctx, "logged in", "user", u.Username)
	return &u, nil
}

// Logout ends the session. A server-side failure is logged and ignored; the
// local session is always cleared.
func (a *authService) Logout(ctx context.Context) error {
	if a.store.IsAuthenticated() {
		if err := a.api.Logout(ctx); err != nil {
			a.log.Warn(ctx, "server logout failed", "error", err)
		}
	}
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Restore checks the persisted session with the server. A 401 or 403 (after
// the client's own refresh attempt) ends the session. Any other failure
// keeps the cached profile so the user stays logged in while offline.
func (a *authService) Restore(ctx context.Context) (*models.User, error) {
	if !a.store.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}
	cached := a.store.User()

	u, err := a.api.CurrentUser(ctx)
	if err == nil {
		if err := a.store.SetUser(ctx, *u); err != nil {
			return nil, fmt.Errorf("save profile: %w", err)
		}
		return u, nil
	}

	if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrForbidden) ||
		errors.Is(err, client.ErrSessionExpired) {
		a.log.Info(ctx, "stored session rejected", "error", err)
		if clearErr := a.store.Clear(ctx); clearErr != nil {
			return nil, fmt.Errorf("clear session: %w", clearErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrNotLoggedIn, err)
	}

	if cached == nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}
	a.log.Warn(ctx, "could not verify session, using cached profile", "error", err)
	return cached, nil
}

func (a *authService) CurrentUser() *models.User {
	return a.store.User()
}

// TokenExpiry reports when the current access token expires.
func (a *authService) TokenExpiry() (time.Time, error) {
	return session.AccessTokenExpiry(a.store.AccessToken())
}
