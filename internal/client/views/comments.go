package views

import (
	"context"

	"github.com/dmitrijs2005/postit/internal/client/models"
)

type CommentsAPI interface {
	Comments(ctx context.Context, postID string, page models.PageRequest) (*models.Page[models.Comment], error)
	AddComment(ctx context.Context, postID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

// Comments is the comment section of one post. Parent, when set, is the post
// list whose comment counter follows adds and removals.
type Comments struct {
	*List[models.Comment]
	api    CommentsAPI
	postID string
	parent *Posts
}

func NewComments(api CommentsAPI, postID string, parent *Posts, pageSize int) *Comments {
	fetch := func(ctx context.Context, page models.PageRequest) (*models.Page[models.Comment], error) {
		return api.Comments(ctx, postID, page)
	}
	return &Comments{List: NewList(fetch, pageSize), api: api, postID: postID, parent: parent}
}

func (c *Comments) PostID() string {
	return c.postID
}

// Add validates and posts a comment, shows it first and bumps the parent
// post's comment count.
func (c *Comments) Add(ctx context.Context, content string) (*models.Comment, error) {
	if err := models.ValidateContent(content); err != nil {
		return nil, err
	}
	cm, err := c.api.AddComment(ctx, c.postID, content)
	if err != nil {
		return nil, err
	}
	c.Prepend(*cm)
	if c.parent != nil {
		c.parent.CommentsChanged(c.postID, 1)
	}
	return cm, nil
}

// Remove deletes a comment on the server and then locally.
func (c *Comments) Remove(ctx context.Context, commentID string) error {
	if err := c.api.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	if _, ok := c.List.Remove(func(cm models.Comment) bool { return cm.ID == commentID }); ok && c.parent != nil {
		c.parent.CommentsChanged(c.postID, -1)
	}
	return nil
}
