package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mini-threads/internal/api/middleware"
	"github.com/d60-Lab/mini-threads/internal/service"
	"github.com/d60-Lab/mini-threads/pkg/response"
)

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreatePost 发帖，multipart 表单：content 必填，image 可选
// @Summary 发布帖子
// @Tags 内容
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param content formData string true "正文"
// @Param image formData file false "图片附件"
// @Success 200 {object} response.Response{data=postView}
// @Failure 400 {object} response.Response
// @Router /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	me := middleware.CurrentUser(c)
	content := c.PostForm("content")
	if content == "" {
		response.BadRequest(c, "content is required")
		return
	}
	var imageBytes []byte
	var imageName string
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			response.InternalError(c, err)
			return
		}
		defer f.Close()
		imageBytes, err = io.ReadAll(f)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		imageName = fh.Filename
	}
	p, err := h.contentSvc.CreatePost(c.Request.Context(), me.ID, content, imageBytes, imageName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyContent), errors.Is(err, service.ErrUnsupportedMedia):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, newPostView(p))
}

// GetPost 查询单帖（公开）
// @Summary 查询帖子
// @Tags 内容
// @Produce json
// @Param post_id path string true "帖子ID"
// @Success 200 {object} response.Response{data=postView}
// @Failure 404 {object} response.Response
// @Router /posts/{post_id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	p, err := h.contentSvc.GetPost(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, newPostView(p))
}

// ListPosts 全站时间线（公开，新帖在前）
// @Summary 帖子列表
// @Tags 内容
// @Produce json
// @Param limit query int false "每页数量" default(20)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} response.Response{data=[]postView}
// @Router /posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	posts, err := h.contentSvc.ListPosts(c.Request.Context(), limit, offset)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, newPostViews(posts))
}

// CreateComment 评论帖子
// @Summary 发表评论
// @Tags 内容
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param post_id path string true "帖子ID"
// @Param request body commentRequest true "评论内容"
// @Success 200 {object} response.Response{data=commentView}
// @Failure 404 {object} response.Response
// @Router /posts/{post_id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	me := middleware.CurrentUser(c)
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cm, err := h.contentSvc.CreateComment(c.Request.Context(), c.Param("post_id"), me.ID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrEmptyContent):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, newCommentView(cm))
}

// ListComments 帖子评论（公开，旧评论在前）
// @Summary 评论列表
// @Tags 内容
// @Produce json
// @Param post_id path string true "帖子ID"
// @Success 200 {object} response.Response{data=[]commentView}
// @Router /posts/{post_id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.contentSvc.ListComments(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	res := make([]commentView, len(comments))
	for i, cm := range comments {
		res[i] = newCommentView(cm)
	}
	response.Success(c, res)
}
