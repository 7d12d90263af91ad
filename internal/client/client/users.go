package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/postit/internal/client/models"
)

// CurrentUser returns the profile of the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.get(ctx, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := c.get(ctx, fmt.Sprintf("/users/%s", url.PathEscape(username)), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Follow(ctx context.Context, userID string) error {
	return c.post(ctx, followPath(userID), nil, nil)
}

func (c *Client) Unfollow(ctx context.Context, userID string) error {
	return c.delete(ctx, followPath(userID))
}

func (c *Client) Followers(ctx context.Context, userID string) ([]models.User, error) {
	var users []models.User
	if err := c.get(ctx, fmt.Sprintf("/users/%s/followers", url.PathEscape(userID)), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Following(ctx context.Context, userID string) ([]models.User, error) {
	var users []models.User
	if err := c.get(ctx, fmt.Sprintf("/users/%s/following", url.PathEscape(userID)), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FollowStatus reports whether the current user follows userID.
func (c *Client) FollowStatus(ctx context.Context, userID string) (bool, error) {
	var st models.FollowStatus
	if err := c.get(ctx, fmt.Sprintf("/users/%s/follow-status", url.PathEscape(userID)), nil, &st); err != nil {
		return false, err
	}
	return st.IsFollowing, nil
}

func followPath(userID string) string {
	return fmt.Sprintf("/users/%s/follow", url.PathEscape(userID))
}
