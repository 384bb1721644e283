package handler

import (
	"errors"
	"net/http"

	"pawsay/internal/domain/community/model"
	"pawsay/internal/domain/community/service"
	"pawsay/internal/pkg/middleware"
	"pawsay/pkg/response"
	"pawsay/pkg/utils"

	"github.com/gin-gonic/gin"
)

// 举报后给用户的提示
const (
	NoticeReportHidden = "Post reported. Since this post has received multiple reports, it has been hidden until an admin can review it. Thank you for your help!"
	NoticeReported     = "Post reported. Our moderators will review it shortly. Thank you for keeping PawSay safe!"
)

type CommunityHandler struct {
	service service.CommunityService
}

func NewCommunityHandler(service service.CommunityService) *CommunityHandler {
	return &CommunityHandler{service: service}
}

type CreatePostRequest struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type ReportRequest struct {
	Reason string `json:"reason"`
}

func author(c *gin.Context) model.Author {
	sess := middleware.CurrentSession(c)
	return model.Author{
		AuthorID:     sess.AccountID,
		AuthorName:   sess.Account.Username,
		AuthorAvatar: sess.Account.AvatarURL,
	}
}

// Feed 社区信息流
// @Summary 信息流
// @Tags Community
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response{data=service.Feed}
// @Router /community/feed [get]
func (h *CommunityHandler) Feed(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	feed, err := h.service.Feed(c.Request.Context(), middleware.CurrentSession(c).AccountID, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, feed)
}

// CreatePost 发帖
// @Summary 发帖
// @Tags Community
// @Security BearerAuth
// @Param input body CreatePostRequest true "Post"
// @Success 200 {object} response.Response{data=model.PostView}
// @Router /community/posts [post]
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	a := author(c)
	post, err := h.service.CreatePost(c.Request.Context(), a, req.Text, req.ImageURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, post.ViewFor(a.AuthorID))
}

// ToggleLike 点赞/取消点赞
// @Summary 点赞
// @Tags Community
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} response.Response{data=service.LikeResult}
// @Router /community/posts/{id}/like [post]
func (h *CommunityHandler) ToggleLike(c *gin.Context) {
	res, err := h.service.ToggleLike(c.Request.Context(), c.Param("id"), middleware.CurrentSession(c).AccountID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, res)
}

// Report 举报帖子
// @Summary 举报
// @Tags Community
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param input body ReportRequest false "Reason"
// @Success 200 {object} response.Response{data=service.ReportResult}
// @Router /community/posts/{id}/report [post]
func (h *CommunityHandler) Report(c *gin.Context) {
	var req ReportRequest
	// 理由可选，body 为空时忽略解析错误
	_ = c.ShouldBindJSON(&req)

	res, err := h.service.Report(c.Request.Context(), c.Param("id"), middleware.CurrentSession(c).AccountID, req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	msg := NoticeReported
	if res.Hidden {
		msg = NoticeReportHidden
	}
	response.Notice(c, res, msg)
}

// Comment 评论
// @Summary 评论
// @Tags Community
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param input body CommentRequest true "Comment"
// @Success 200 {object} response.Response{data=model.Comment}
// @Router /community/posts/{id}/comments [post]
func (h *CommunityHandler) Comment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrEmptyContent, "Comment cannot be empty.")
		return
	}
	comment, err := h.service.Comment(c.Request.Context(), c.Param("id"), author(c), req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, comment)
}

func (h *CommunityHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		response.Error(c, http.StatusNotFound, response.ErrPostNotFound, "Post not found")
	case errors.Is(err, service.ErrEmptyPost):
		response.Error(c, http.StatusBadRequest, response.ErrEmptyContent, "Add some text or a photo first.")
	case errors.Is(err, service.ErrEmptyComment):
		response.Error(c, http.StatusBadRequest, response.ErrEmptyContent, "Comment cannot be empty.")
	case errors.Is(err, service.ErrUnsafeImage):
		response.Error(c, http.StatusBadRequest, response.ErrUnsafeImage, "Invalid image.")
	case errors.Is(err, service.ErrAlreadyReported):
		response.Error(c, http.StatusConflict, response.ErrAlreadyReported, "You have already reported this post.")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}
