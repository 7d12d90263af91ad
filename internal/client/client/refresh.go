package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/postit/internal/client/models"
	"github.com/google/uuid"
)

var errNoRefreshToken = errors.New("no refresh token")

const refreshFlightKey = "refresh"

// reauthenticate returns an access token to replay a call that was rejected
// while carrying stale.
//
// When the stored token already differs from stale another call has
// refreshed in the meantime and its result is reused. Otherwise one
// exchange is started, or joined if one is in flight; every waiter receives
// the same outcome.
func (c *Client) reauthenticate(ctx context.Context, stale string) (string, error) {
	if current := c.store.AccessToken(); current != "" && current != stale {
		return current, nil
	}

	refreshToken := c.store.RefreshToken()
	if refreshToken == "" {
		return "", errNoRefreshToken
	}

	// the exchange outlives a single waiter's cancellation
	flightCtx := context.WithoutCancel(ctx)

	ch := c.refresh.DoChan(refreshFlightKey, func() (any, error) {
		// a flight that finished between the check above and DoChan
		if current := c.store.AccessToken(); current != "" && current != stale {
			return current, nil
		}
		return c.renewAccessToken(flightCtx, refreshToken)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.log.Debug(ctx, "joined in-flight token refresh")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// renewAccessToken performs the exchange and applies its outcome to the
// session: the new access token on success, a full clear when the server
// rejects the refresh token with a 4xx. Transport failures and 5xx answers
// leave the session alone.
func (c *Client) renewAccessToken(ctx context.Context, refreshToken string) (string, error) {
	resp, err := c.exchange(ctx, refreshToken)
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode >= http.StatusInternalServerError {
			c.log.Warn(ctx, "token refresh failed, keeping session", "error", err)
			return "", err
		}

		c.log.Warn(ctx, "refresh token rejected, clearing session", "status", apiErr.StatusCode)
		if clearErr := c.store.Clear(ctx); clearErr != nil {
			c.log.Error(ctx, "failed to clear session", "error", clearErr)
		}
		expired := fmt.Errorf("%w: %w", ErrSessionExpired, err)
		if c.onExpired != nil {
			c.onExpired(ctx, expired)
		}
		return "", expired
	}

	if resp.AccessToken == "" {
		return "", fmt.Errorf("refresh response carries no access token")
	}
	if err := c.store.SetAccessToken(ctx, resp.AccessToken); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}

	c.log.Info(ctx, "access token refreshed")
	return resp.AccessToken, nil
}

// exchange calls POST /auth/refresh directly on the transport. It never goes
// through roundTrip, so a rejected refresh cannot trigger another refresh.
func (c *Client) exchange(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	cl := &call{
		method:  http.MethodPost,
		path:    "/auth/refresh",
		id:      uuid.NewString(),
		retried: true,
	}
	body, err := jsonBody(models.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}
	cl.body = body

	resp, err := c.dispatch(ctx, cl, "")
	if err != nil {
		return nil, err
	}

	var out models.AuthResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

