package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/postit/internal/client/models"
)

// CreatePost publishes content. Invalid content is rejected before any
// request is made.
func (c *Client) CreatePost(ctx context.Context, content string) (*models.Post, error) {
	if err := models.ValidateContent(content); err != nil {
		return nil, err
	}
	var p models.Post
	if err := c.post(ctx, "/posts", models.ContentRequest{Content: content}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Post(ctx context.Context, postID string) (*models.Post, error) {
	var p models.Post
	if err := c.get(ctx, postPath(postID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Feed returns one page of posts from the users the caller follows.
func (c *Client) Feed(ctx context.Context, page models.PageRequest) (*models.Page[models.Post], error) {
	return getPage[models.Post](ctx, c, "/posts/feed", page)
}

func (c *Client) UserPosts(ctx context.Context, userID string, page models.PageRequest) (*models.Page[models.Post], error) {
	return getPage[models.Post](ctx, c, fmt.Sprintf("/posts/user/%s", url.PathEscape(userID)), page)
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.delete(ctx, postPath(postID))
}

func (c *Client) Like(ctx context.Context, postID string) error {
	return c.post(ctx, postPath(postID)+"/like", nil, nil)
}

func (c *Client) Unlike(ctx context.Context, postID string) error {
	return c.delete(ctx, postPath(postID)+"/like")
}

// AddComment comments on a post. Invalid content is rejected before any
// request is made.
func (c *Client) AddComment(ctx context.Context, postID, content string) (*models.Comment, error) {
	if err := models.ValidateContent(content); err != nil {
		return nil, err
	}
	var cm models.Comment
	if err := c.post(ctx, postPath(postID)+"/comments", models.ContentRequest{Content: content}, &cm); err != nil {
		return nil, err
	}
	return &cm, nil
}

func (c *Client) Comments(ctx context.Context, postID string, page models.PageRequest) (*models.Page[models.Comment], error) {
	return getPage[models.Comment](ctx, c, postPath(postID)+"/comments", page)
}

func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.delete(ctx, fmt.Sprintf("/posts/comments/%s", url.PathEscape(commentID)))
}

func postPath(postID string) string {
	return fmt.Sprintf("/posts/%s", url.PathEscape(postID))
}

// getPage fetches one page of a paginated endpoint.
func getPage[T any](ctx context.Context, c *Client, path string, page models.PageRequest) (*models.Page[T], error) {
	var p models.Page[T]
	if err := c.get(ctx, path, page.Query(), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
