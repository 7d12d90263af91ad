package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/postit/internal/client/models"
	"github.com/dmitrijs2005/postit/internal/client/views"
)

// Feed reloads and prints the home feed.
func (a *App) Feed(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if err := a.feed.Reload(ctx); err != nil {
		return a.fail(err, "Failed to load feed")
	}
	a.active = listingFeed
	a.posts = a.feed.Posts
	if a.feed.Len() == 0 {
		a.println("No posts yet. Follow some users or create your first post!")
		return nil
	}
	a.printPosts(a.feed.Posts, 0)
	return nil
}

// More loads the next page of whatever was listed last.
func (a *App) More(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	switch a.active {
	case listingFeed, listingProfile:
		return a.morePosts(ctx, a.posts)
	case listingComments:
		c := a.comments
		if !c.HasMore() {
			a.println("No more comments.")
			return nil
		}
		from := c.Len()
		if err := c.LoadMore(ctx); err != nil {
			return a.fail(err, "Failed to load comments")
		}
		a.printComments(c, from)
	case listingNotifications:
		n := a.notifications
		if !n.HasMore() {
			a.println("No more notifications.")
			return nil
		}
		from := n.Len()
		if err := n.LoadMore(ctx); err != nil {
			return a.fail(err, "Failed to load notifications")
		}
		a.printNotifications(from)
	default:
		a.println("Nothing to load more of. Try feed, profile, comments or notifications.")
	}
	return nil
}

func (a *App) morePosts(ctx context.Context, posts *views.Posts) error {
	if !posts.HasMore() {
		a.println("No more posts.")
		return nil
	}
	from := posts.Len()
	if err := posts.LoadMore(ctx); err != nil {
		return a.fail(err, "Failed to load posts")
	}
	a.printPosts(posts, from)
	return nil
}

// Post prompts for a post body and publishes it to the feed.
func (a *App) Post(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, fmt.Sprintf("What's on your mind? (max %d characters)", models.MaxContentLength), a.out)
	if err != nil {
		return err
	}
	p, err := a.feed.Publish(ctx, content)
	if err != nil {
		return a.fail(err, "Failed to create post")
	}
	a.println("Posted.")
	a.println(renderPost(1, *p, a.now()))
	return nil
}

// selectPost resolves "<n>" against the last post listing.
func (a *App) selectPost(args []string, usage string) (models.Post, error) {
	if err := a.requireLogin(); err != nil {
		return models.Post{}, err
	}
	if a.posts == nil {
		a.println("List some posts first (feed or profile).")
		return models.Post{}, errNeedListing
	}
	i, err := a.index(args, usage, a.posts.Len())
	if err != nil {
		return models.Post{}, err
	}
	p, _ := a.posts.At(i)
	return p, nil
}

// Like toggles the like on post n.
func (a *App) Like(ctx context.Context, args []string) error {
	p, err := a.selectPost(args, "like <n>")
	if err != nil {
		return err
	}
	updated, err := a.posts.ToggleLike(ctx, p.ID)
	if err != nil {
		return a.fail(err, "Failed to update like")
	}
	if updated.LikedByCurrentUser {
		a.println(fmt.Sprintf("Liked. ♥ %d", updated.LikeCount))
	} else {
		a.println(fmt.Sprintf("Unliked. ♡ %d", updated.LikeCount))
	}
	return nil
}

// Delete removes the user's own post n.
func (a *App) Delete(ctx context.Context, args []string) error {
	p, err := a.selectPost(args, "delete <n>")
	if err != nil {
		return err
	}
	if u := a.store.User(); u == nil || u.ID != p.UserID {
		a.println("You can only delete your own posts.")
		return errNotOwner
	}
	confirm, err := getSimpleText(a.reader, "Are you sure you want to delete this post? (y/N)", a.out)
	if err != nil {
		return err
	}
	if confirm != "y" && confirm != "yes" {
		return nil
	}
	if err := a.posts.Delete(ctx, p.ID); err != nil {
		return a.fail(err, "Failed to delete post")
	}
	a.println("Post deleted.")
	return nil
}

// Comments opens the comment section of post n.
func (a *App) Comments(ctx context.Context, args []string) error {
	p, err := a.selectPost(args, "comments <n>")
	if err != nil {
		return err
	}
	c := views.NewComments(a.api, p.ID, a.posts, a.config.PageSize)
	if err := c.Reload(ctx); err != nil {
		return a.fail(err, "Failed to load comments")
	}
	a.comments = c
	a.active = listingComments
	if c.Len() == 0 {
		a.println("No comments yet.")
		return nil
	}
	a.printComments(c, 0)
	return nil
}

// Comment adds a comment to post n.
func (a *App) Comment(ctx context.Context, args []string) error {
	p, err := a.selectPost(args, "comment <n>")
	if err != nil {
		return err
	}
	content, err := getSimpleText(a.reader, "Write a comment", a.out)
	if err != nil {
		return err
	}

	c := a.comments
	if c == nil || c.PostID() != p.ID {
		c = views.NewComments(a.api, p.ID, a.posts, a.config.PageSize)
	}
	if _, err := c.Add(ctx, content); err != nil {
		return a.fail(err, "Failed to add comment")
	}
	a.comments = c
	a.println("Comment added.")
	return nil
}

// Uncomment deletes comment n of the open comment section.
func (a *App) Uncomment(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if a.comments == nil {
		a.println("Open a post's comments first (comments <n>).")
		return errNeedListing
	}
	i, err := a.index(args, "uncomment <n>", a.comments.Len())
	if err != nil {
		return err
	}
	cm, _ := a.comments.At(i)
	if u := a.store.User(); u == nil || u.ID != cm.UserID {
		a.println("You can only delete your own comments.")
		return errNotOwner
	}
	if err := a.comments.Remove(ctx, cm.ID); err != nil {
		return a.fail(err, "Failed to delete comment")
	}
	a.println("Comment deleted.")
	return nil
}

func (a *App) printPosts(posts *views.Posts, from int) {
	now := a.now()
	items := posts.Items()
	for i := from; i < len(items); i++ {
		a.println(renderPost(i+1, items[i], now))
	}
	if posts.HasMore() {
		a.println("(more)")
	}
}

func (a *App) printComments(c *views.Comments, from int) {
	now := a.now()
	items := c.Items()
	for i := from; i < len(items); i++ {
		a.println(renderComment(i+1, items[i], now))
	}
	if c.HasMore() {
		a.println("(more)")
	}
}
