package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/postit/internal/client/models"
)

func (c *Client) Notifications(ctx context.Context, page models.PageRequest) (*models.Page[models.Notification], error) {
	return getPage[models.Notification](ctx, c, "/notifications", page)
}

func (c *Client) UnreadNotifications(ctx context.Context, page models.PageRequest) (*models.Page[models.Notification], error) {
	return getPage[models.Notification](ctx, c, "/notifications/unread", page)
}

// UnreadCount returns the number of unread notifications; the endpoint
// answers with a bare JSON number.
func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	var n int64
	if err := c.get(ctx, "/notifications/unread-count", nil, &n); err != nil {
		return 0, err
	}
	return n, nil
}

func (c *Client) MarkRead(ctx context.Context, notificationID string) error {
	return c.put(ctx, fmt.Sprintf("/notifications/%s/read", url.PathEscape(notificationID)), nil, nil)
}

func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.put(ctx, "/notifications/read-all", nil, nil)
}
