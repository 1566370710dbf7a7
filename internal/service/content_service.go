package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/mini-threads/internal/blob"
	"github.com/d60-Lab/mini-threads/internal/model"
	"github.com/d60-Lab/mini-threads/internal/repository"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrEmptyContent     = errors.New("content must not be empty")
	ErrUnsupportedMedia = errors.New("file not supported")
)

// 允许的图片扩展名（按小写文件名判断）
var allowedImageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

const (
	DefaultPostLimit = 20
	DefaultFeedLimit = 30
	MaxPageLimit     = 100
)

// ContentService 帖子与评论
type ContentService interface {
	CreatePost(ctx context.Context, authorID, content string, image []byte, imageName string) (*model.Post, error)
	GetPost(ctx context.Context, id string) (*model.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]*model.Post, error)
	CreateComment(ctx context.Context, postID, authorID, content string) (*model.Comment, error)
	ListComments(ctx context.Context, postID string) ([]*model.Comment, error)
}

type contentService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	blobs       blob.Store
}

func NewContentService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, blobs blob.Store) ContentService {
	return &contentService{postRepo: postRepo, commentRepo: commentRepo, blobs: blobs}
}

// CreatePost 先落 blob 再插行：插行失败时尽力清理 blob，
// 保证不会出现指向缺失附件的帖子
func (s *contentService) CreatePost(ctx context.Context, authorID, content string, image []byte, imageName string) (*model.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	var imageKey string
	if len(image) > 0 {
		ext := strings.ToLower(filepath.Ext(imageName))
		if !allowedImageExts[ext] {
			return nil, ErrUnsupportedMedia
		}
		key, err := s.blobs.Save(ctx, image, ext)
		if err != nil {
			return nil, err
		}
		imageKey = key
	}
	p := &model.Post{ID: uuid.New().String(), AuthorID: authorID, Content: content, ImageKey: imageKey}
	if err := s.postRepo.Create(ctx, p); err != nil {
		if imageKey != "" {
			_ = s.blobs.Remove(ctx, imageKey)
		}
		return nil, err
	}
	return p, nil
}

func (s *contentService) GetPost(ctx context.Context, id string) (*model.Post, error) {
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *contentService) ListPosts(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	limit, offset = clampPage(limit, offset, DefaultPostLimit)
	return s.postRepo.List(ctx, limit, offset)
}

func (s *contentService) CreateComment(ctx context.Context, postID, authorID, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	c := &model.Comment{ID: uuid.New().String(), PostID: postID, AuthorID: authorID, Content: content}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contentService) ListComments(ctx context.Context, postID string) ([]*model.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

func clampPage(limit, offset, def int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
