package views

import (
	"context"

	"github.com/dmitrijs2005/postit/internal/client/models"
)

// FeedAPI is what the home feed needs from the API client.
type FeedAPI interface {
	PostActions
	Feed(ctx context.Context, page models.PageRequest) (*models.Page[models.Post], error)
	CreatePost(ctx context.Context, content string) (*models.Post, error)
}

// Feed is the home timeline: the user's posts and those of followed users,
// newest first.
type Feed struct {
	*Posts
	api FeedAPI
}

func NewFeed(api FeedAPI, pageSize int) *Feed {
	return &Feed{Posts: newPosts(api, api.Feed, pageSize), api: api}
}

// Publish validates and creates a post and puts it at the top of the feed.
func (f *Feed) Publish(ctx context.Context, content string) (*models.Post, error) {
	if err := models.ValidateContent(content); err != nil {
		return nil, err
	}
	post, err := f.api.CreatePost(ctx, content)
	if err != nil {
		return nil, err
	}
	f.Prepend(*post)
	return post, nil
}
