package models

type Post struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Username           string    `json:"username"`
	DisplayName        string    `json:"displayName,omitempty"`
	Content            string    `json:"content"`
	LikeCount          int       `json:"likeCount"`
	CommentCount       int       `json:"commentCount"`
	LikedByCurrentUser bool      `json:"likedByCurrentUser"`
	CreatedAt          Timestamp `json:"createdAt"`
	UpdatedAt          Timestamp `json:"updatedAt"`
}

func (p Post) AuthorName() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}

type Comment struct {
	ID          string    `json:"id"`
	PostID      string    `json:"postId"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

func (c Comment) AuthorName() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Username
}

// ContentRequest is the body of both "create post" and "add comment".
type ContentRequest struct {
	Content string `json:"content"`
}
