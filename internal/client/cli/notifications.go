package cli

import (
	"context"
	"fmt"
)

// Notifications reloads and prints the notification list.
func (a *App) Notifications(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	n := a.notifications
	if err := n.Reload(ctx); err != nil {
		return a.fail(err, "Failed to load notifications")
	}
	a.active = listingNotifications

	if count, err := n.UnreadCount(ctx); err == nil {
		a.println(fmt.Sprintf("Notifications (%d unread)", count))
	}
	if n.Len() == 0 {
		a.println("No notifications yet.")
		return nil
	}
	a.printNotifications(0)
	return nil
}

// Read marks notification n as read.
func (a *App) Read(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	n := a.notifications
	if n.Len() == 0 {
		a.println("List your notifications first (notifications).")
		return errNeedListing
	}
	i, err := a.index(args, "read <n>", n.Len())
	if err != nil {
		return err
	}
	x, _ := n.At(i)
	if x.Read {
		return nil
	}
	if err := n.MarkRead(ctx, x.ID); err != nil {
		return a.fail(err, "Failed to mark notification as read")
	}
	a.println(fmt.Sprintf("Marked as read. %d unread.", n.Unread()))
	return nil
}

// ReadAll marks every notification as read.
func (a *App) ReadAll(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if err := a.notifications.MarkAllRead(ctx); err != nil {
		return a.fail(err, "Failed to mark notifications as read")
	}
	a.println("All notifications marked as read.")
	return nil
}

func (a *App) printNotifications(from int) {
	now := a.now()
	items := a.notifications.Items()
	for i := from; i < len(items); i++ {
		a.println(renderNotification(i+1, items[i], now))
	}
	if a.notifications.HasMore() {
		a.println("(more)")
	}
}
