package models

// User is a public profile as returned by /users/* and embedded in
// authentication responses. It is also the profile cached in the session.
type User struct {
	ID                    string    `json:"id"`
	Username              string    `json:"username"`
	Email                 string    `json:"email,omitempty"`
	DisplayName           string    `json:"displayName,omitempty"`
	Bio                   string    `json:"bio,omitempty"`
	ProfileImageURL       string    `json:"profileImageUrl,omitempty"`
	FollowersCount        int64     `json:"followersCount"`
	FollowingCount        int64     `json:"followingCount"`
	PostsCount            int64     `json:"postsCount"`
	FollowedByCurrentUser bool      `json:"followedByCurrentUser"`
	CreatedAt             Timestamp `json:"createdAt"`
}

// Name returns the display name, falling back to the username.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// FollowStatus is the body of GET /users/{id}/follow-status.
type FollowStatus struct {
	IsFollowing bool `json:"isFollowing"`
}
