package cli

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/postit/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, ""},
		{"seconds", now.Add(-30 * time.Second), "Just now"},
		{"future clock skew", now.Add(5 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3*time.Hour - 20*time.Minute), "3h ago"},
		{"days", now.Add(-2 * 24 * time.Hour), "2d ago"},
		{"older", now.Add(-30 * 24 * time.Hour), "Feb 14, 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeTime(tt.t, now))
		})
	}
}

func TestRenderPost(t *testing.T) {
	now := time.Now()
	p := models.Post{
		Username:     "alice",
		DisplayName:  "Alice",
		Content:      "line one\nline two",
		LikeCount:    3,
		CommentCount: 1,
		CreatedAt:    models.NewTimestamp(now.Add(-2 * time.Minute)),
	}

	assert.Equal(t, "[4] Alice @alice · 2m ago\n    line one\n    line two\n    ♡ 3   💬 1", renderPost(4, p, now))

	p.LikedByCurrentUser = true
	assert.Contains(t, renderPost(4, p, now), "♥ 3")
}

func TestRenderNotification(t *testing.T) {
	now := time.Now()
	n := models.Notification{
		SenderUsername: "bob",
		Type:           models.NotificationComment,
		Message:        "bob commented on your post",
		CreatedAt:      models.NewTimestamp(now),
	}
	assert.Equal(t, "● [1] bob (Commented) bob commented on your post · Just now", renderNotification(1, n, now))

	n.Read = true
	n.Type = models.NotificationLike
	assert.Equal(t, "  [2] bob (Liked) bob commented on your post · Just now", renderNotification(2, n, now))
}

func TestRenderUser(t *testing.T) {
	u := models.User{Username: "carol", Bio: "hi", PostsCount: 2, FollowersCount: 5, FollowingCount: 1}
	assert.Equal(t, "carol (@carol)\nhi\n2 posts · 5 followers · 1 following", renderUser(u))
}
