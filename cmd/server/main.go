package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/mini-threads/config"
	"github.com/d60-Lab/mini-threads/internal/api/handler"
	"github.com/d60-Lab/mini-threads/internal/api/router"
	"github.com/d60-Lab/mini-threads/internal/blob"
	"github.com/d60-Lab/mini-threads/internal/cache"
	"github.com/d60-Lab/mini-threads/internal/repository"
	"github.com/d60-Lab/mini-threads/internal/service"
	"github.com/d60-Lab/mini-threads/pkg/database"
	"github.com/d60-Lab/mini-threads/pkg/jwtauth"
	"github.com/d60-Lab/mini-threads/pkg/logger"
	"github.com/d60-Lab/mini-threads/pkg/tracing"
)

// @title Mini Threads API
// @version 1.0
// @description 极简社交 feed 服务：注册登录、关注、发帖、评论、个人时间线
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			panic(err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer := must(tracing.Init(ctx, cfg.Trace, "mini-threads"))
	defer func() { _ = shutdownTracer(context.Background()) }()

	db := must(database.InitDB(cfg))
	rdb := database.InitRedis(cfg)
	blobs := must(blob.NewDiskStore(cfg.Upload.Dir))
	tokens := jwtauth.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	relCache := cache.New(rdb, cfg.Redis.TTL)
	authSvc := service.NewAuthService(userRepo, tokens)
	relSvc := service.NewRelationshipService(followRepo, userRepo, relCache)
	contentSvc := service.NewContentService(postRepo, commentRepo, blobs)
	feedSvc := service.NewFeedService(relSvc, postRepo)

	h := handler.New(authSvc, relSvc, contentSvc, feedSvc)
	engine := router.New(cfg, h, tokens, authSvc, blobs.Dir())

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: engine}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server exited", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
