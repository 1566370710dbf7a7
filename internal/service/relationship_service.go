package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/mini-threads/internal/cache"
	"github.com/d60-Lab/mini-threads/internal/model"
	"github.com/d60-Lab/mini-threads/internal/repository"
)

var (
	ErrFollowSelf       = errors.New("cannot follow self")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
)

// RelationshipService 关系链服务
type RelationshipService interface {
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	ListFollowers(ctx context.Context, userID string) ([]*model.Follow, error)
	// FolloweeIDs 供 feed 组装使用，带 cache-aside
	FolloweeIDs(ctx context.Context, userID string) ([]string, error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	relCache   *cache.RelationCache
}

func NewRelationshipService(followRepo repository.FollowRepository, userRepo repository.UserRepository, relCache *cache.RelationCache) RelationshipService {
	return &relationshipService{followRepo: followRepo, userRepo: userRepo, relCache: relCache}
}

func (s *relationshipService) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return ErrFollowSelf
	}
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.followRepo.Create(ctx, followerID, followeeID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyFollowing
		}
		return err
	}
	s.relCache.Invalidate(ctx, followerID)
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	n, err := s.followRepo.Delete(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFollowing
	}
	s.relCache.Invalidate(ctx, followerID)
	return nil
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID string) ([]*model.Follow, error) {
	return s.followRepo.ListFollowers(ctx, userID)
}

func (s *relationshipService) FolloweeIDs(ctx context.Context, userID string) ([]string, error) {
	if ids, ok := s.relCache.FolloweeIDs(ctx, userID); ok {
		return ids, nil
	}
	ids, err := s.followRepo.ListFolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.relCache.SetFolloweeIDs(ctx, userID, ids)
	return ids, nil
}
