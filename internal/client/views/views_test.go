package views

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/dmitrijs2005/postit/internal/client/apitest"
	"github.com/dmitrijs2005/postit/internal/client/client"
	"github.com/dmitrijs2005/postit/internal/client/models"
	"github.com/dmitrijs2005/postit/internal/client/session"
	"github.com/stretchr/testify/require"
)

type actor struct {
	user  models.User
	store *session.MemoryStore
	api   *client.Client
}

func newActor(t *testing.T, srv *apitest.Server, username string) actor {
	t.Helper()
	u := srv.CreateUser(username, "secret123")
	access, refresh := srv.IssueTokens(u.ID)
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), session.Session{AccessToken: access, RefreshToken: refresh, User: &u}))
	c, err := client.NewClient(srv.URL(), store)
	require.NoError(t, err)
	return actor{user: u, store: store, api: c}
}

func TestFeed(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	alice := newActor(t, srv, "alice")

	for _, text := range []string{"one", "two", "three"} {
		_, err := alice.api.CreatePost(ctx, text)
		require.NoError(t, err)
	}

	feed := NewFeed(alice.api, 2)
	require.NoError(t, feed.Reload(ctx))
	require.Equal(t, 2, feed.Len())
	require.True(t, feed.HasMore())

	require.NoError(t, feed.LoadMore(ctx))
	items := feed.Items()
	require.Len(t, items, 3)
	require.Equal(t, []string{"three", "two", "one"}, []string{items[0].Content, items[1].Content, items[2].Content})
	require.False(t, feed.HasMore())

	p, err := feed.Publish(ctx, "four")
	require.NoError(t, err)
	first, _ := feed.At(0)
	require.Equal(t, p.ID, first.ID)

	_, err = feed.Publish(ctx, strings.Repeat("x", 281))
	require.ErrorIs(t, err, models.ErrContentTooLong)
	require.Equal(t, 4, feed.Len())

	require.NoError(t, feed.Delete(ctx, p.ID))
	require.Equal(t, 3, feed.Len())
	_, ok := srv.Post(p.ID)
	require.False(t, ok)
}

func TestPosts_ToggleLike(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	alice := newActor(t, srv, "alice")
	post, err := alice.api.CreatePost(ctx, "hello")
	require.NoError(t, err)

	feed := NewFeed(alice.api, 20)
	require.NoError(t, feed.Reload(ctx))

	got, err := feed.ToggleLike(ctx, post.ID)
	require.NoError(t, err)
	require.True(t, got.LikedByCurrentUser)
	require.Equal(t, 1, got.LikeCount)

	stored, _ := srv.Post(post.ID)
	require.Equal(t, post.ID, stored.ID)
	require.Len(t, srv.RequestsTo(http.MethodPost, "/posts/"+post.ID+"/like"), 1)

	t.Run("rolled back on failure", func(t *testing.T) {
		srv.FailNext(http.MethodDelete, "/posts/"+post.ID+"/like", http.StatusInternalServerError, "try again")

		prev, err := feed.ToggleLike(ctx, post.ID)
		require.Error(t, err)
		require.Equal(t, "try again", client.Message(err, "fallback"))
		require.True(t, prev.LikedByCurrentUser)

		cur, _ := feed.At(0)
		require.True(t, cur.LikedByCurrentUser)
		require.Equal(t, 1, cur.LikeCount)
	})

	got, err = feed.ToggleLike(ctx, post.ID)
	require.NoError(t, err)
	require.False(t, got.LikedByCurrentUser)
	require.Zero(t, got.LikeCount)

	_, err = feed.ToggleLike(ctx, "missing")
	require.ErrorIs(t, err, ErrUnknownPost)
}

func TestComments(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	alice := newActor(t, srv, "alice")
	post, err := alice.api.CreatePost(ctx, "hello")
	require.NoError(t, err)

	feed := NewFeed(alice.api, 20)
	require.NoError(t, feed.Reload(ctx))

	comments := NewComments(alice.api, post.ID, feed.Posts, 20)
	require.NoError(t, comments.Reload(ctx))
	require.Zero(t, comments.Len())

	c1, err := comments.Add(ctx, "first")
	require.NoError(t, err)
	_, err = comments.Add(ctx, "second")
	require.NoError(t, err)

	items := comments.Items()
	require.Equal(t, "second", items[0].Content)
	p, _ := feed.At(0)
	require.Equal(t, 2, p.CommentCount)

	_, err = comments.Add(ctx, "  ")
	require.ErrorIs(t, err, models.ErrEmptyContent)

	require.NoError(t, comments.Remove(ctx, c1.ID))
	require.Equal(t, 1, comments.Len())
	p, _ = feed.At(0)
	require.Equal(t, 1, p.CommentCount)

	// server state agrees after a reload
	require.NoError(t, comments.Reload(ctx))
	require.Equal(t, 1, comments.Len())
	require.Equal(t, post.ID, comments.PostID())
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	alice := newActor(t, srv, "alice")
	bob := newActor(t, srv, "bob")
	_, err := bob.api.CreatePost(ctx, "bob's post")
	require.NoError(t, err)

	profile := NewProfile(alice.api, alice.store.User, 20)

	_, err = profile.ToggleFollow(ctx)
	require.ErrorIs(t, err, ErrNoProfile)

	require.NoError(t, profile.Open(ctx, "bob"))
	require.Equal(t, bob.user.ID, profile.User().ID)
	require.False(t, profile.IsOwn())
	require.Equal(t, 1, profile.Posts().Len())

	following, err := profile.ToggleFollow(ctx)
	require.NoError(t, err)
	require.True(t, following)
	require.True(t, profile.User().FollowedByCurrentUser)
	require.EqualValues(t, 1, profile.User().FollowersCount)

	followers, err := profile.Followers(ctx)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	require.Equal(t, alice.user.ID, followers[0].ID)

	t.Run("rolled back on failure", func(t *testing.T) {
		srv.FailNext(http.MethodDelete, "/users/"+bob.user.ID+"/follow", http.StatusServiceUnavailable, "")

		following, err := profile.ToggleFollow(ctx)
		require.Error(t, err)
		require.True(t, following)
		require.True(t, profile.User().FollowedByCurrentUser)
		require.EqualValues(t, 1, profile.User().FollowersCount)
	})

	following, err = profile.ToggleFollow(ctx)
	require.NoError(t, err)
	require.False(t, following)
	require.EqualValues(t, 0, profile.User().FollowersCount)

	require.NoError(t, profile.Open(ctx, "alice"))
	require.True(t, profile.IsOwn())
	_, err = profile.ToggleFollow(ctx)
	require.ErrorIs(t, err, ErrOwnProfile)

	list, err := profile.Following(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	err = profile.Open(ctx, "nobody")
	require.ErrorIs(t, err, client.ErrNotFound)
	require.Equal(t, alice.user.ID, profile.User().ID)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	alice := newActor(t, srv, "alice")
	bob := newActor(t, srv, "bob")

	post, err := alice.api.CreatePost(ctx, "hello")
	require.NoError(t, err)
	require.NoError(t, bob.api.Like(ctx, post.ID))
	_, err = bob.api.AddComment(ctx, post.ID, "hi")
	require.NoError(t, err)

	n := NewNotifications(alice.api, 20)
	require.NoError(t, n.Reload(ctx))
	require.Equal(t, 2, n.Len())
	require.Equal(t, 2, n.Unread())

	first, _ := n.At(0)
	require.NoError(t, n.MarkRead(ctx, first.ID))
	require.Equal(t, 1, n.Unread())

	count, err := n.UnreadCount(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	require.NoError(t, n.MarkAllRead(ctx))
	require.Zero(t, n.Unread())

	srv.FailNext(http.MethodPut, "/notifications/"+first.ID+"/read", http.StatusInternalServerError, "nope")
	require.Error(t, n.MarkRead(ctx, first.ID))
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	alice := newActor(t, srv, "alice")
	newActor(t, srv, "bob")

	s := NewSearch(alice.api)

	res, err := s.Run(ctx, " bob ")
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, "bob", res[0].Username)

	res, err = s.Run(ctx, "carol")
	require.NoError(t, err)
	require.Empty(t, res)
	require.Empty(t, s.Results())

	res, err = s.Run(ctx, "")
	require.NoError(t, err)
	require.Empty(t, res)
}
