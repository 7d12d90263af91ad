package views

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/postit/internal/client/models"
)

var (
	ErrNoProfile  = errors.New("no profile open")
	ErrOwnProfile = errors.New("you cannot follow yourself")
)

type ProfileAPI interface {
	PostActions
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserPosts(ctx context.Context, userID string, page models.PageRequest) (*models.Page[models.Post], error)
	FollowStatus(ctx context.Context, userID string) (bool, error)
	Follow(ctx context.Context, userID string) error
	Unfollow(ctx context.Context, userID string) error
	Followers(ctx context.Context, userID string) ([]models.User, error)
	Following(ctx context.Context, userID string) ([]models.User, error)
}

// Profile shows one user and their posts. Opening another profile while a
// previous Open is still running makes the older one return ErrSuperseded.
type Profile struct {
	api      ProfileAPI
	viewer   func() *models.User
	pageSize int

	mu    sync.Mutex
	gen   uint64
	user  *models.User
	posts *Posts
}

// NewProfile returns an empty profile view. viewer reports the logged-in
// user and may return nil.
func NewProfile(api ProfileAPI, viewer func() *models.User, pageSize int) *Profile {
	return &Profile{api: api, viewer: viewer, pageSize: pageSize}
}

// Open loads username's profile, their follow status and the first page of
// their posts.
func (p *Profile) Open(ctx context.Context, username string) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	u, err := p.api.UserByUsername(ctx, username)
	if err != nil {
		return p.settle(gen, err)
	}
	if !p.isViewer(u.ID) {
		following, err := p.api.FollowStatus(ctx, u.ID)
		if err != nil {
			return p.settle(gen, err)
		}
		u.FollowedByCurrentUser = following
	}
	if err := p.settle(gen, nil); err != nil {
		return err
	}

	userID := u.ID
	posts := newPosts(p.api, func(ctx context.Context, page models.PageRequest) (*models.Page[models.Post], error) {
		return p.api.UserPosts(ctx, userID, page)
	}, p.pageSize)
	if err := posts.Reload(ctx); err != nil {
		return p.settle(gen, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return ErrSuperseded
	}
	p.user = u
	p.posts = posts
	return nil
}

// settle maps the outcome of a step of Open: a stale generation wins over
// any error.
func (p *Profile) settle(gen uint64, err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return ErrSuperseded
	}
	return err
}

func (p *Profile) isViewer(userID string) bool {
	if p.viewer == nil {
		return false
	}
	v := p.viewer()
	return v != nil && v.ID == userID
}

// User returns a copy of the open profile, or nil.
func (p *Profile) User() *models.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}

// Posts returns the open profile's posts, or nil.
func (p *Profile) Posts() *Posts {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.posts
}

// IsOwn reports whether the open profile belongs to the logged-in user.
func (p *Profile) IsOwn() bool {
	u := p.User()
	return u != nil && p.isViewer(u.ID)
}

// ToggleFollow follows or unfollows the open profile. The follow flag and
// the follower count change at once and are restored if the request fails.
// It returns the follow state after the call.
func (p *Profile) ToggleFollow(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.user == nil {
		p.mu.Unlock()
		return false, ErrNoProfile
	}
	if p.isViewer(p.user.ID) {
		p.mu.Unlock()
		return false, ErrOwnProfile
	}
	target := p.user
	prev := *target
	if prev.FollowedByCurrentUser {
		target.FollowedByCurrentUser = false
		target.FollowersCount--
	} else {
		target.FollowedByCurrentUser = true
		target.FollowersCount++
	}
	p.mu.Unlock()

	var err error
	if prev.FollowedByCurrentUser {
		err = p.api.Unfollow(ctx, prev.ID)
	} else {
		err = p.api.Follow(ctx, prev.ID)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		// only roll back if the same profile is still open
		if p.user == target {
			target.FollowedByCurrentUser = prev.FollowedByCurrentUser
			target.FollowersCount = prev.FollowersCount
		}
		return prev.FollowedByCurrentUser, err
	}
	return !prev.FollowedByCurrentUser, nil
}

func (p *Profile) Followers(ctx context.Context) ([]models.User, error) {
	u := p.User()
	if u == nil {
		return nil, ErrNoProfile
	}
	return p.api.Followers(ctx, u.ID)
}

func (p *Profile) Following(ctx context.Context) ([]models.User, error) {
	u := p.User()
	if u == nil {
		return nil, ErrNoProfile
	}
	return p.api.Following(ctx, u.ID)
}
