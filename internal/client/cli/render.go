package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/postit/internal/client/models"
)

// relativeTime renders t the way post cards do: "Just now", minutes, hours
// and days ago, then a plain date after a week.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}

func renderPost(n int, p models.Post, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s @%s · %s\n", n, p.AuthorName(), p.Username, relativeTime(p.CreatedAt.Time, now))
	fmt.Fprintf(&b, "    %s\n", indent(p.Content))
	heart := "♡"
	if p.LikedByCurrentUser {
		heart = "♥"
	}
	fmt.Fprintf(&b, "    %s %d   💬 %d", heart, p.LikeCount, p.CommentCount)
	return b.String()
}

func renderComment(n int, c models.Comment, now time.Time) string {
	return fmt.Sprintf("[%d] %s @%s · %s\n    %s", n, c.AuthorName(), c.Username,
		relativeTime(c.CreatedAt.Time, now), indent(c.Content))
}

func renderNotification(n int, x models.Notification, now time.Time) string {
	mark := " "
	if !x.Read {
		mark = "●"
	}
	label := string(x.Type)
	switch x.Type {
	case models.NotificationLike:
		label = "Liked"
	case models.NotificationComment:
		label = "Commented"
	}
	return fmt.Sprintf("%s [%d] %s (%s) %s · %s", mark, n, x.SenderUsername, label, x.Message,
		relativeTime(x.CreatedAt.Time, now))
}

func renderUser(u models.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (@%s)", u.Name(), u.Username)
	if u.Bio != "" {
		fmt.Fprintf(&b, "\n%s", u.Bio)
	}
	fmt.Fprintf(&b, "\n%d posts · %d followers · %d following", u.PostsCount, u.FollowersCount, u.FollowingCount)
	return b.String()
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n    ")
}
