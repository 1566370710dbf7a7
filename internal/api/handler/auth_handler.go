package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mini-threads/internal/api/middleware"
	"github.com/d60-Lab/mini-threads/internal/service"
	"github.com/d60-Lab/mini-threads/pkg/response"
)

type credentialRequest struct {
	Username string `json:"username" binding:"required,uname"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// Register 注册并直接签发令牌
// @Summary 注册用户
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body credentialRequest true "注册信息"
// @Success 200 {object} response.Response{data=tokenView}
// @Failure 400 {object} response.Response
// @Router /register [post]
func (h *Handler) Register(c *gin.Context) {
	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	_, token, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUsername) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, tokenView{AccessToken: token, TokenType: "bearer"})
}

// Login 登录
// @Summary 登录
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body credentialRequest true "登录信息"
// @Success 200 {object} response.Response{data=tokenView}
// @Failure 401 {object} response.Response
// @Router /login [post]
func (h *Handler) Login(c *gin.Context) {
	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	_, token, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, tokenView{AccessToken: token, TokenType: "bearer"})
}

// Me 当前登录用户
// @Summary 查询当前用户
// @Tags 账号
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=userView}
// @Failure 401 {object} response.Response
// @Router /me [get]
func (h *Handler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	response.Success(c, userView{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt})
}

// ListUsers 用户列表（公开）
// @Summary 用户列表
// @Tags 账号
// @Produce json
// @Success 200 {object} response.Response{data=[]userBrief}
// @Router /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.authSvc.ListUsers(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	res := make([]userBrief, len(users))
	for i, u := range users {
		res[i] = userBrief{ID: u.ID, Username: u.Username}
	}
	response.Success(c, res)
}
