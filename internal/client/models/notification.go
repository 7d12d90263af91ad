package models

type NotificationType string

const (
	NotificationLike    NotificationType = "LIKE"
	NotificationComment NotificationType = "COMMENT"
)

type Notification struct {
	ID             string           `json:"id"`
	SenderID       string           `json:"senderId"`
	SenderUsername string           `json:"senderUsername"`
	Type           NotificationType `json:"type"`
	PostID         string           `json:"postId,omitempty"`
	CommentID      string           `json:"commentId,omitempty"`
	Message        string           `json:"message"`
	Read           bool             `json:"read"`
	CreatedAt      Timestamp        `json:"createdAt"`
}
