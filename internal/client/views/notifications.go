package views

import (
	"context"

	"github.com/dmitrijs2005/postit/internal/client/models"
)

type NotificationsAPI interface {
	Notifications(ctx context.Context, page models.PageRequest) (*models.Page[models.Notification], error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, notificationID string) error
	MarkAllRead(ctx context.Context) error
}

// Notifications lists likes and comments on the user's posts, newest first.
type Notifications struct {
	*List[models.Notification]
	api NotificationsAPI
}

func NewNotifications(api NotificationsAPI, pageSize int) *Notifications {
	return &Notifications{List: NewList(api.Notifications, pageSize), api: api}
}

// MarkRead marks one notification read on the server, then locally.
func (n *Notifications) MarkRead(ctx context.Context, notificationID string) error {
	if err := n.api.MarkRead(ctx, notificationID); err != nil {
		return err
	}
	n.Update(func(x models.Notification) bool { return x.ID == notificationID }, func(x *models.Notification) {
		x.Read = true
	})
	return nil
}

func (n *Notifications) MarkAllRead(ctx context.Context) error {
	if err := n.api.MarkAllRead(ctx); err != nil {
		return err
	}
	n.UpdateAll(func(x *models.Notification) { x.Read = true })
	return nil
}

// UnreadCount asks the server for the number of unread notifications.
func (n *Notifications) UnreadCount(ctx context.Context) (int64, error) {
	return n.api.UnreadCount(ctx)
}

// Unread counts the unread notifications currently loaded.
func (n *Notifications) Unread() int {
	count := 0
	for _, x := range n.Items() {
		if !x.Read {
			count++
		}
	}
	return count
}
