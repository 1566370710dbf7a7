package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mini-threads/internal/api/middleware"
	"github.com/d60-Lab/mini-threads/internal/service"
	"github.com/d60-Lab/mini-threads/pkg/response"
)

// Follow 关注目标用户
// @Summary 关注用户
// @Tags 关系链
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "目标用户ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /follow/{user_id} [post]
func (h *Handler) Follow(c *gin.Context) {
	me := middleware.CurrentUser(c)
	targetID := c.Param("user_id")
	if err := h.relSvc.Follow(c.Request.Context(), me.ID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrFollowSelf), errors.Is(err, service.ErrAlreadyFollowing):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, gin.H{"detail": "followed"})
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "目标用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /unfollow/{user_id} [post]
func (h *Handler) Unfollow(c *gin.Context) {
	me := middleware.CurrentUser(c)
	targetID := c.Param("user_id")
	if err := h.relSvc.Unfollow(c.Request.Context(), me.ID, targetID); err != nil {
		if errors.Is(err, service.ErrNotFollowing) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"detail": "unfollowed"})
}

// ListFollowers 查询某用户的粉丝（公开）
// @Summary 查询粉丝列表
// @Tags 关系链
// @Produce json
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=[]followerView}
// @Router /followers/{user_id} [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	userID := c.Param("user_id")
	edges, err := h.relSvc.ListFollowers(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	res := make([]followerView, len(edges))
	for i, e := range edges {
		res[i] = followerView{FollowerID: e.FollowerID, CreatedAt: e.CreatedAt}
	}
	response.Success(c, res)
}
