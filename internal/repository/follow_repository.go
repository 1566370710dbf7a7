package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/mini-threads/internal/model"
)

type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID string) error
	// Delete 返回实际删除的行数，0 表示本就没有关注
	Delete(ctx context.Context, followerID, followeeID string) (int64, error)
	ListFollowers(ctx context.Context, followeeID string) ([]*model.Follow, error)
	ListFolloweeIDs(ctx context.Context, followerID string) ([]string, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

// Create 重复关注触发 idx_follow_pair 唯一键冲突，
// 由 TranslateError 转成 gorm.ErrDuplicatedKey 交给上层
func (r *followRepository) Create(ctx context.Context, followerID, followeeID string) error {
	f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FolloweeID: followeeID}
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{})
	return res.RowsAffected, res.Error
}

func (r *followRepository) ListFollowers(ctx context.Context, followeeID string) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).Where("followee_id = ?", followeeID).Find(&res).Error
	return res, err
}

func (r *followRepository) ListFolloweeIDs(ctx context.Context, followerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("followee_id", &ids).Error
	return ids, err
}
