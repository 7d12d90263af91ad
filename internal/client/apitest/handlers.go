package apitest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/postit/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ctxKey struct{}

func currentUserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Full authentication is required to access this resource")
			return
		}
		claims, err := parseToken(token, s.secret)
		if err != nil || claims.Epoch != s.epoch.Load() {
			writeError(w, http.StatusUnauthorized, "JWT token is expired")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed JSON request")
		return false
	}
	return true
}

func pageParams(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		page = models.DefaultPage
	}
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 {
		size = models.DefaultPageSize
	}
	return page, size
}

func paginate[T any](items []T, page, size int) models.Page[T] {
	total := len(items)
	start := min(page*size, total)
	end := min(start+size, total)
	pages := (total + size - 1) / size

	content := make([]T, end-start)
	copy(content, items[start:end])
	return models.Page[T]{
		Content:       content,
		First:         page == 0,
		Last:          end >= total,
		Number:        page,
		Size:          size,
		TotalElements: int64(total),
		TotalPages:    pages,
	}
}

func (s *Server) issue(w http.ResponseWriter, status int, u models.User) {
	access, refresh := s.IssueTokens(u.ID)
	writeJSON(w, status, models.AuthResponse{AccessToken: access, RefreshToken: refresh, User: u})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" || len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "Username, email and a password of at least 6 characters are required")
		return
	}

	s.mu.Lock()
	for _, a := range s.accounts {
		if a.user.Username == req.Username {
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "Username is already taken")
			return
		}
		if a.user.Email == req.Email {
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "Email is already in use")
			return
		}
	}
	u := s.createUserLocked(req.Username, req.Email, req.Password, req.DisplayName)
	s.mu.Unlock()

	s.issue(w, http.StatusCreated, u)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	var found *account
	for _, a := range s.accounts {
		if a.user.Username == req.UsernameOrEmail || a.user.Email == req.UsernameOrEmail {
			found = a
			break
		}
	}
	s.mu.Unlock()

	if found == nil || found.password != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	s.issue(w, http.StatusOK, s.profile(found.user.ID, found.user.ID))
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	s.refreshCalls.Add(1)
	if d := time.Duration(s.refreshDelay.Load()); d > 0 {
		time.Sleep(d)
	}

	var req models.RefreshTokenRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	userID, ok := s.refreshTokens[req.RefreshToken]
	s.mu.Unlock()

	if !ok || s.rejectRefresh.Load() {
		writeError(w, http.StatusUnauthorized, "Refresh token is invalid or expired")
		return
	}

	access, err := GenerateToken(userID, s.epoch.Load(), s.secret, accessTokenValidity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{
		AccessToken:  access,
		RefreshToken: req.RefreshToken,
		User:         s.profile(userID, userID),
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r.Context())

	s.mu.Lock()
	for token, owner := range s.refreshTokens {
		if owner == userID {
			delete(s.refreshTokens, token)
		}
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusOK)
}

// profile returns id's profile with counters as seen by viewer.
func (s *Server) profile(id, viewer string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileLocked(id, viewer)
}

func (s *Server) profileLocked(id, viewer string) models.User {
	a, ok := s.accounts[id]
	if !ok {
		return models.User{}
	}
	u := a.user
	u.FollowingCount = int64(len(s.follows[id]))
	for follower, set := range s.follows {
		if set[id] {
			u.FollowersCount++
			if follower == viewer {
				u.FollowedByCurrentUser = true
			}
		}
	}
	for _, p := range s.posts {
		if p.UserID == id {
			u.PostsCount++
		}
	}
	if viewer != id {
		u.Email = ""
	}
	return u
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	id := currentUserID(r.Context())
	writeJSON(w, http.StatusOK, s.profile(id, id))
}

func (s *Server) userByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "id")
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.accounts {
		if a.user.Username == username {
			writeJSON(w, http.StatusOK, s.profileLocked(id, viewer))
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("User not found with username: %s", username))
}

func (s *Server) follow(w http.ResponseWriter, r *http.Request) {
	s.setFollow(w, r, true)
}

func (s *Server) unfollow(w http.ResponseWriter, r *http.Request) {
	s.setFollow(w, r, false)
}

func (s *Server) setFollow(w http.ResponseWriter, r *http.Request, follow bool) {
	target := chi.URLParam(r, "id")
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[target]; !ok {
		writeError(w, http.StatusNotFound, notFoundMessage("User", target))
		return
	}
	if target == viewer {
		writeError(w, http.StatusBadRequest, "You cannot follow yourself")
		return
	}

	set := s.follows[viewer]
	if set == nil {
		set = make(map[string]bool)
		s.follows[viewer] = set
	}
	if follow {
		set[target] = true
	} else {
		delete(set, target)
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) followers(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "id")
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	users := []models.User{}
	for follower, set := range s.follows {
		if set[target] {
			users = append(users, s.profileLocked(follower, viewer))
		}
	}
	sortUsers(users)
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) following(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "id")
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	users := []models.User{}
	for followee := range s.follows[target] {
		users = append(users, s.profileLocked(followee, viewer))
	}
	sortUsers(users)
	writeJSON(w, http.StatusOK, users)
}

func sortUsers(users []models.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
}

func (s *Server) followStatus(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "id")
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	following := s.follows[viewer][target]
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.FollowStatus{IsFollowing: following})
}

func validContent(w http.ResponseWriter, content string) bool {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > models.MaxContentLength {
		writeError(w, http.StatusBadRequest, "Content must be between 1 and 280 characters")
		return false
	}
	return true
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var req models.ContentRequest
	if !decode(w, r, &req) || !validContent(w, req.Content) {
		return
	}
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	a := s.accounts[viewer]
	now := models.NewTimestamp(time.Now())
	p := &models.Post{
		ID:          uuid.NewString(),
		UserID:      viewer,
		Username:    a.user.Username,
		DisplayName: a.user.DisplayName,
		Content:     req.Content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.posts = append([]*models.Post{p}, s.posts...)
	out := s.postViewLocked(p, viewer)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) findPostLocked(id string) *models.Post {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Server) postViewLocked(p *models.Post, viewer string) models.Post {
	out := *p
	out.LikeCount = len(s.likes[p.ID])
	out.CommentCount = len(s.comments[p.ID])
	out.LikedByCurrentUser = s.likes[p.ID][viewer]
	return out
}

func (s *Server) postsPage(w http.ResponseWriter, r *http.Request, include func(*models.Post) bool) {
	viewer := currentUserID(r.Context())
	page, size := pageParams(r)

	s.mu.Lock()
	posts := []models.Post{}
	for _, p := range s.posts {
		if include(p) {
			posts = append(posts, s.postViewLocked(p, viewer))
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, paginate(posts, page, size))
}

func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	followed := make(map[string]bool, len(s.follows[viewer]))
	for id := range s.follows[viewer] {
		followed[id] = true
	}
	s.mu.Unlock()

	s.postsPage(w, r, func(p *models.Post) bool {
		return p.UserID == viewer || followed[p.UserID]
	})
}

func (s *Server) userPosts(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "id")
	s.postsPage(w, r, func(p *models.Post) bool { return p.UserID == target })
}

func (s *Server) post(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findPostLocked(id)
	if p == nil {
		writeError(w, http.StatusNotFound, notFoundMessage("Post", id))
		return
	}
	writeJSON(w, http.StatusOK, s.postViewLocked(p, currentUserID(r.Context())))
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.posts {
		if p.ID != id {
			continue
		}
		if p.UserID != viewer {
			writeError(w, http.StatusForbidden, "You can only delete your own posts")
			return
		}
		s.posts = append(s.posts[:i], s.posts[i+1:]...)
		delete(s.likes, id)
		delete(s.comments, id)
		w.WriteHeader(http.StatusOK)
		return
	}
	writeError(w, http.StatusNotFound, notFoundMessage("Post", id))
}

func (s *Server) like(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findPostLocked(id)
	if p == nil {
		writeError(w, http.StatusNotFound, notFoundMessage("Post", id))
		return
	}
	if s.likes[id][viewer] {
		writeError(w, http.StatusBadRequest, "You have already liked this post")
		return
	}
	if s.likes[id] == nil {
		s.likes[id] = make(map[string]bool)
	}
	s.likes[id][viewer] = true
	s.notifyLocked(p.UserID, viewer, models.NotificationLike, p.ID, "")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) unlike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.likes[id][viewer] {
		writeError(w, http.StatusBadRequest, "You have not liked this post")
		return
	}
	delete(s.likes[id], viewer)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	var req models.ContentRequest
	if !decode(w, r, &req) || !validContent(w, req.Content) {
		return
	}
	id := chi.URLParam(r, "id")
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findPostLocked(id)
	if p == nil {
		writeError(w, http.StatusNotFound, notFoundMessage("Post", id))
		return
	}
	a := s.accounts[viewer]
	now := models.NewTimestamp(time.Now())
	c := &models.Comment{
		ID:          uuid.NewString(),
		PostID:      id,
		UserID:      viewer,
		Username:    a.user.Username,
		DisplayName: a.user.DisplayName,
		Content:     req.Content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.comments[id] = append([]*models.Comment{c}, s.comments[id]...)
	s.notifyLocked(p.UserID, viewer, models.NotificationComment, p.ID, c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page, size := pageParams(r)

	s.mu.Lock()
	comments := make([]models.Comment, 0, len(s.comments[id]))
	for _, c := range s.comments[id] {
		comments = append(comments, *c)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, paginate(comments, page, size))
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	for postID, list := range s.comments {
		for i, c := range list {
			if c.ID != id {
				continue
			}
			if c.UserID != viewer {
				writeError(w, http.StatusForbidden, "You can only delete your own comments")
				return
			}
			s.comments[postID] = append(list[:i], list[i+1:]...)
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	writeError(w, http.StatusNotFound, notFoundMessage("Comment", id))
}

func (s *Server) notifyLocked(recipient, sender string, typ models.NotificationType, postID, commentID string) {
	if recipient == sender {
		return
	}
	name := s.accounts[sender].user.Username
	msg := name + " liked your post"
	if typ == models.NotificationComment {
		msg = name + " commented on your post"
	}
	n := &models.Notification{
		ID:             uuid.NewString(),
		SenderID:       sender,
		SenderUsername: name,
		Type:           typ,
		PostID:         postID,
		CommentID:      commentID,
		Message:        msg,
		CreatedAt:      models.NewTimestamp(time.Now()),
	}
	s.notifications[recipient] = append([]*models.Notification{n}, s.notifications[recipient]...)
}

func (s *Server) notificationsPage(w http.ResponseWriter, r *http.Request, unreadOnly bool) {
	viewer := currentUserID(r.Context())
	page, size := pageParams(r)

	s.mu.Lock()
	list := []models.Notification{}
	for _, n := range s.notifications[viewer] {
		if !unreadOnly || !n.Read {
			list = append(list, *n)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, paginate(list, page, size))
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	s.notificationsPage(w, r, false)
}

func (s *Server) unreadNotifications(w http.ResponseWriter, r *http.Request) {
	s.notificationsPage(w, r, true)
}

func (s *Server) unreadCount(w http.ResponseWriter, r *http.Request) {
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	var n int64
	for _, x := range s.notifications[viewer] {
		if !x.Read {
			n++
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, n)
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications[viewer] {
		if n.ID == id {
			n.Read = true
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	writeError(w, http.StatusNotFound, notFoundMessage("Notification", id))
}

func (s *Server) markAllRead(w http.ResponseWriter, r *http.Request) {
	viewer := currentUserID(r.Context())

	s.mu.Lock()
	for _, n := range s.notifications[viewer] {
		n.Read = true
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusOK)
}
