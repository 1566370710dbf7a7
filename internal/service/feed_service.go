package service

import (
	"context"

	"github.com/d60-Lab/mini-threads/internal/model"
	"github.com/d60-Lab/mini-threads/internal/repository"
)

// FeedService 个人时间线：自己 + 关注者的帖子按时间倒序归并
type FeedService interface {
	Feed(ctx context.Context, userID string, limit, offset int) ([]*model.Post, error)
}

type feedService struct {
	relSvc   RelationshipService
	postRepo repository.PostRepository
}

func NewFeedService(relSvc RelationshipService, postRepo repository.PostRepository) FeedService {
	return &feedService{relSvc: relSvc, postRepo: postRepo}
}

func (s *feedService) Feed(ctx context.Context, userID string, limit, offset int) ([]*model.Post, error) {
	limit, offset = clampPage(limit, offset, DefaultFeedLimit)
	followees, err := s.relSvc.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := append(followees, userID)
	posts, err := s.postRepo.ListByAuthors(ctx, ids, limit, offset)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	return posts, nil
}
