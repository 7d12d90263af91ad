package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/postit/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and creates the account. On
// success the new session is saved and the feed is shown.
func (a *App) Register(ctx context.Context) error {
	var req models.RegisterRequest
	var err error

	if req.Username, err = getSimpleText(a.reader, "Username (3-20 characters)", a.out); err != nil {
		return err
	}
	if req.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if req.DisplayName, err = getSimpleText(a.reader, "Display name (optional)", a.out); err != nil {
		return err
	}
	if req.Password, err = getPassword(a.reader, a.out); err != nil {
		return err
	}

	u, err := a.auth.Register(ctx, req)
	if err != nil {
		return a.fail(err, "Registration failed. Please try again.")
	}
	a.resetViews()
	a.println(fmt.Sprintf("Welcome, %s!", u.Name()))
	return a.Feed(ctx)
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Username or email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	u, err := a.auth.Login(ctx, login, password)
	if err != nil {
		return a.fail(err, "Login failed. Please check your credentials.")
	}
	a.resetViews()
	a.println(fmt.Sprintf("Logged in as @%s", u.Username))
	return nil
}

// Logout ends the session locally even when the server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return a.fail(err, "Logout failed")
	}
	a.resetViews()
	a.println("Logged out.")
	return nil
}

// Whoami prints the cached profile and when the access token expires.
func (a *App) Whoami(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	u := a.auth.CurrentUser()
	if u == nil {
		a.println("Logged in (profile not loaded)")
		return nil
	}
	a.println(renderUser(*u))

	if exp, err := a.auth.TokenExpiry(); err == nil {
		a.println("Access token expires", exp.Local().Format("2006-01-02 15:04:05"))
	} else {
		a.println("Access token expiry unknown")
	}
	return nil
}
