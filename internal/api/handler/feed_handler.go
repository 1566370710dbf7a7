package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mini-threads/internal/api/middleware"
	"github.com/d60-Lab/mini-threads/pkg/response"
)

// Feed 个人时间线：自己 + 关注者的帖子，新帖在前
// @Summary 个人时间线
// @Tags 内容
// @Security BearerAuth
// @Produce json
// @Param limit query int false "每页数量" default(30)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} response.Response{data=[]postView}
// @Failure 401 {object} response.Response
// @Router /feed [get]
func (h *Handler) Feed(c *gin.Context) {
	me := middleware.CurrentUser(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	posts, err := h.feedSvc.Feed(c.Request.Context(), me.ID, limit, offset)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, newPostViews(posts))
}
