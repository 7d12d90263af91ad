package views

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/postit/internal/client/models"
)

var ErrUnknownPost = errors.New("post is not in this list")

// PostActions are the per-post calls available wherever posts are listed.
type PostActions interface {
	DeletePost(ctx context.Context, postID string) error
	Like(ctx context.Context, postID string) error
	Unlike(ctx context.Context, postID string) error
}

// Posts is a list of posts with the actions of a post card.
type Posts struct {
	*List[models.Post]
	api PostActions
}

func newPosts(api PostActions, fetch PageFunc[models.Post], size int) *Posts {
	return &Posts{List: NewList(fetch, size), api: api}
}

func byPostID(id string) func(models.Post) bool {
	return func(p models.Post) bool { return p.ID == id }
}

// ToggleLike likes or unlikes a post. The like flag and count change at once
// and are restored if the request fails, unless the post was replaced in the
// meantime (by a reload, say). It returns the post as shown after the call.
func (p *Posts) ToggleLike(ctx context.Context, postID string) (models.Post, error) {
	var optimistic models.Post
	prev, ok := p.Update(byPostID(postID), func(post *models.Post) {
		if post.LikedByCurrentUser {
			post.LikedByCurrentUser = false
			post.LikeCount--
		} else {
			post.LikedByCurrentUser = true
			post.LikeCount++
		}
		optimistic = *post
	})
	if !ok {
		return models.Post{}, ErrUnknownPost
	}

	var err error
	if prev.LikedByCurrentUser {
		err = p.api.Unlike(ctx, postID)
	} else {
		err = p.api.Like(ctx, postID)
	}
	if err != nil {
		stillOptimistic := func(post models.Post) bool {
			return post.ID == postID &&
				post.LikedByCurrentUser == optimistic.LikedByCurrentUser &&
				post.LikeCount == optimistic.LikeCount
		}
		p.Update(stillOptimistic, func(post *models.Post) {
			post.LikedByCurrentUser = prev.LikedByCurrentUser
			post.LikeCount = prev.LikeCount
		})
		cur, _ := p.find(postID)
		return cur, err
	}

	cur, _ := p.find(postID)
	return cur, nil
}

// Delete removes a post on the server and then from the list.
func (p *Posts) Delete(ctx context.Context, postID string) error {
	if err := p.api.DeletePost(ctx, postID); err != nil {
		return err
	}
	p.Remove(byPostID(postID))
	return nil
}

// CommentsChanged adjusts a post's comment count by delta.
func (p *Posts) CommentsChanged(postID string, delta int) {
	p.Update(byPostID(postID), func(post *models.Post) {
		post.CommentCount = max(post.CommentCount+delta, 0)
	})
}

func (p *Posts) find(postID string) (models.Post, bool) {
	for _, post := range p.Items() {
		if post.ID == postID {
			return post, true
		}
	}
	return models.Post{}, false
}
