package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/mini-threads/internal/model"
	"github.com/d60-Lab/mini-threads/internal/service"
	"github.com/d60-Lab/mini-threads/pkg/jwtauth"
	"github.com/d60-Lab/mini-threads/pkg/logger"
	"github.com/d60-Lab/mini-threads/pkg/response"
)

const ctxUserKey = "current_user"

// Auth 解析 Bearer 令牌并装载完整用户。
// 头缺失、格式错误、签名/过期失败、用户已不存在对外一律 401，
// 不区分原因；具体原因只进 debug 日志
func Auth(tokens *jwtauth.Manager, authSvc service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logger.Debug("auth rejected: missing or malformed header", zap.String("path", c.FullPath()))
			response.Unauthorized(c, "unauthorized")
			return
		}
		userID, err := tokens.Parse(parts[1])
		if err != nil {
			logger.Debug("auth rejected: token parse failed", zap.String("path", c.FullPath()), zap.Error(err))
			response.Unauthorized(c, "unauthorized")
			return
		}
		user, err := authSvc.GetByID(c.Request.Context(), userID)
		if err != nil {
			logger.Debug("auth rejected: subject not resolvable", zap.String("user", userID), zap.Error(err))
			response.Unauthorized(c, "unauthorized")
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// CurrentUser 取出 Auth 中间件装载的用户；只在受保护路由内调用
func CurrentUser(c *gin.Context) *model.User {
	v, _ := c.Get(ctxUserKey)
	u, _ := v.(*model.User)
	return u
}
