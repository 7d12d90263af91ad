package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/postit/internal/client/models"
	"github.com/dmitrijs2005/postit/internal/client/views"
)

// Profile opens a user's profile, the logged-in user's when no username is
// given.
func (a *App) Profile(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	var username string
	if len(args) > 0 {
		username = strings.TrimPrefix(args[0], "@")
	} else if u := a.store.User(); u != nil {
		username = u.Username
	} else {
		a.println("Usage: profile <username>")
		return fmt.Errorf("missing argument")
	}

	if err := a.profile.Open(ctx, username); err != nil {
		return a.fail(err, "User not found")
	}

	u := a.profile.User()
	a.println(renderUser(*u))
	if !a.profile.IsOwn() {
		if u.FollowedByCurrentUser {
			a.println("You follow this user (unfollow to stop)")
		} else {
			a.println("Not following (follow to start)")
		}
	}

	posts := a.profile.Posts()
	a.posts = posts
	a.active = listingProfile
	if posts.Len() == 0 {
		a.println("No posts yet.")
		return nil
	}
	a.printPosts(posts, 0)
	return nil
}

// Follow follows the open profile.
func (a *App) Follow(ctx context.Context) error {
	return a.setFollow(ctx, true)
}

// Unfollow unfollows the open profile.
func (a *App) Unfollow(ctx context.Context) error {
	return a.setFollow(ctx, false)
}

func (a *App) setFollow(ctx context.Context, follow bool) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	u := a.profile.User()
	if u == nil {
		a.println("Open a profile first (profile <username>).")
		return views.ErrNoProfile
	}
	if u.FollowedByCurrentUser == follow {
		if follow {
			a.println(fmt.Sprintf("You already follow @%s.", u.Username))
		} else {
			a.println(fmt.Sprintf("You do not follow @%s.", u.Username))
		}
		return nil
	}

	following, err := a.profile.ToggleFollow(ctx)
	if err != nil {
		if errors.Is(err, views.ErrOwnProfile) {
			a.println("You cannot follow yourself.")
			return err
		}
		return a.fail(err, "Failed to update follow status")
	}

	u = a.profile.User()
	if following {
		a.println(fmt.Sprintf("Following @%s (%d followers)", u.Username, u.FollowersCount))
	} else {
		a.println(fmt.Sprintf("Unfollowed @%s (%d followers)", u.Username, u.FollowersCount))
	}
	return nil
}

// Followers lists who follows the open profile.
func (a *App) Followers(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	users, err := a.profile.Followers(ctx)
	return a.printUsers(users, err, "No followers yet.", "Failed to load followers")
}

// Following lists who the open profile follows.
func (a *App) Following(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	users, err := a.profile.Following(ctx)
	return a.printUsers(users, err, "Not following anyone yet.", "Failed to load following")
}

func (a *App) printUsers(users []models.User, err error, empty, fallback string) error {
	if errors.Is(err, views.ErrNoProfile) {
		a.println("Open a profile first (profile <username>).")
		return err
	}
	if err != nil {
		return a.fail(err, fallback)
	}
	if len(users) == 0 {
		a.println(empty)
		return nil
	}
	for _, u := range users {
		a.println(fmt.Sprintf("  %s (@%s)", u.Name(), u.Username))
	}
	return nil
}

// Search looks a user up by username.
func (a *App) Search(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		a.println("Usage: search <username>")
		return fmt.Errorf("missing argument")
	}

	users, err := a.search.Run(ctx, strings.TrimPrefix(args[0], "@"))
	if err != nil {
		return a.fail(err, "Search failed")
	}
	if len(users) == 0 {
		a.println("No users found.")
		return nil
	}
	for _, u := range users {
		a.println(renderUser(u))
	}
	a.println("Type profile <username> to open a profile.")
	return nil
}
