package router

import (
	"regexp"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/mini-threads/config"
	_ "github.com/d60-Lab/mini-threads/docs"
	"github.com/d60-Lab/mini-threads/internal/api/handler"
	"github.com/d60-Lab/mini-threads/internal/api/middleware"
	"github.com/d60-Lab/mini-threads/internal/service"
	"github.com/d60-Lab/mini-threads/pkg/jwtauth"
	"github.com/d60-Lab/mini-threads/pkg/response"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)

// New 组装路由与中间件
func New(cfg *config.Config, h *handler.Handler, tokens *jwtauth.Manager, authSvc service.AuthService, uploadsDir string) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("uname", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.AccessLog())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Trace.Endpoint != "" {
		r.Use(otelgin.Middleware("mini-threads"))
	}
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	auth := middleware.Auth(tokens, authSvc)

	r.GET("/healthz", func(c *gin.Context) { response.Success(c, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static("/uploads", uploadsDir)

	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.GET("/me", auth, h.Me)
	r.GET("/users", h.ListUsers)

	r.POST("/follow/:user_id", auth, h.Follow)
	r.POST("/unfollow/:user_id", auth, h.Unfollow)
	r.GET("/followers/:user_id", h.ListFollowers)

	r.POST("/posts", auth, h.CreatePost)
	r.GET("/posts", h.ListPosts)
	r.GET("/posts/:post_id", h.GetPost)
	r.POST("/posts/:post_id/comments", auth, h.CreateComment)
	r.GET("/posts/:post_id/comments", h.ListComments)

	r.GET("/feed", auth, h.Feed)

	return r
}
