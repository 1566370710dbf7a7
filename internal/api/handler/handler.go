package handler

import (
	"time"

	"github.com/d60-Lab/mini-threads/internal/model"
	"github.com/d60-Lab/mini-threads/internal/service"
)

type Handler struct {
	authSvc    service.AuthService
	relSvc     service.RelationshipService
	contentSvc service.ContentService
	feedSvc    service.FeedService
}

func New(authSvc service.AuthService, relSvc service.RelationshipService, contentSvc service.ContentService, feedSvc service.FeedService) *Handler {
	return &Handler{authSvc: authSvc, relSvc: relSvc, contentSvc: contentSvc, feedSvc: feedSvc}
}

type tokenView struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type userBrief struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type postView struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type commentView struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type followerView struct {
	FollowerID string    `json:"follower_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func newPostView(p *model.Post) postView {
	v := postView{ID: p.ID, AuthorID: p.AuthorID, Content: p.Content, CreatedAt: p.CreatedAt}
	if p.ImageKey != "" {
		url := "/uploads/" + p.ImageKey
		v.ImageURL = &url
	}
	return v
}

func newPostViews(posts []*model.Post) []postView {
	res := make([]postView, len(posts))
	for i, p := range posts {
		res[i] = newPostView(p)
	}
	return res
}

func newCommentView(c *model.Comment) commentView {
	return commentView{ID: c.ID, PostID: c.PostID, AuthorID: c.AuthorID, Content: c.Content, CreatedAt: c.CreatedAt}
}
