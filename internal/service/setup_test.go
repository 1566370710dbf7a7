package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/mini-threads/internal/blob"
	"github.com/d60-Lab/mini-threads/internal/model"
	"github.com/d60-Lab/mini-threads/internal/repository"
	"github.com/d60-Lab/mini-threads/pkg/jwtauth"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Follow{}, &model.Post{}, &model.Comment{}))
	return db
}

type testEnv struct {
	db         *gorm.DB
	tokens     *jwtauth.Manager
	blobs      *blob.MemStore
	authSvc    AuthService
	relSvc     RelationshipService
	contentSvc ContentService
	feedSvc    FeedService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	tokens := jwtauth.NewManager("test-secret", time.Hour)
	blobs := blob.NewMemStore()

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authSvc := NewAuthService(userRepo, tokens)
	relSvc := NewRelationshipService(followRepo, userRepo, nil)
	contentSvc := NewContentService(postRepo, commentRepo, blobs)
	feedSvc := NewFeedService(relSvc, postRepo)

	return &testEnv{db: db, tokens: tokens, blobs: blobs, authSvc: authSvc, relSvc: relSvc, contentSvc: contentSvc, feedSvc: feedSvc}
}

func (e *testEnv) register(t *testing.T, username string) *model.User {
	t.Helper()
	u, _, err := e.authSvc.Register(context.Background(), username, "password1")
	require.NoError(t, err)
	return u
}

// createPostAt 直接写库并指定时间戳，用于排序断言
func (e *testEnv) createPostAt(t *testing.T, authorID, content string, at time.Time) *model.Post {
	t.Helper()
	p := &model.Post{ID: uuid.New().String(), AuthorID: authorID, Content: content, CreatedAt: at}
	require.NoError(t, e.db.Create(p).Error)
	return p
}
