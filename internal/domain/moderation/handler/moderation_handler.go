package handler

import (
	"context"
	"errors"
	"net/http"

	accountModel "pawsay/internal/domain/account/model"
	"pawsay/internal/domain/moderation/service"
	"pawsay/internal/pkg/middleware"
	"pawsay/pkg/response"

	"github.com/gin-gonic/gin"
)

// ModerationHandler 管理后台处理器
type ModerationHandler struct {
	service service.ModerationService
}

func NewModerationHandler(service service.ModerationService) *ModerationHandler {
	return &ModerationHandler{service: service}
}

// ListReports 举报列表
// @Summary 举报列表
// @Tags Admin
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]service.ReportView}
// @Router /admin/reports [get]
func (h *ModerationHandler) ListReports(c *gin.Context) {
	reports, err := h.service.ListReports(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, reports)
}

// DismissReport 驳回举报
// @Summary 驳回举报
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.Response
// @Router /admin/reports/{id} [delete]
func (h *ModerationHandler) DismissReport(c *gin.Context) {
	if err := h.service.DismissReport(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Notice(c, nil, "Report dismissed.")
}

// ListPosts 全部帖子（含已隐藏）
// @Summary 帖子列表
// @Tags Admin
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]service.PostSummary}
// @Router /admin/posts [get]
func (h *ModerationHandler) ListPosts(c *gin.Context) {
	posts, err := h.service.ListPosts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, posts)
}

// DeletePost 删除帖子
// @Summary 删除帖子
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} response.Response
// @Router /admin/posts/{id} [delete]
func (h *ModerationHandler) DeletePost(c *gin.Context) {
	if err := h.service.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Notice(c, nil, "Post removed from community feed.")
}

// ListUsers 用户列表
// @Summary 用户列表
// @Tags Admin
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]accountModel.PublicAccount}
// @Router /admin/users [get]
func (h *ModerationHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, users)
}

type statusAction func(ctx context.Context, actorID, targetID string) (*accountModel.Account, error)

func (h *ModerationHandler) status(action statusAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, err := action(c.Request.Context(), middleware.CurrentSession(c).AccountID, c.Param("id"))
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Notice(c, acc.Public(), "User status updated.")
	}
}

// ToggleDeactivation 停用/恢复账号
// @Summary 切换停用状态
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} response.Response{data=accountModel.PublicAccount}
// @Router /admin/users/{id}/toggle-deactivation [post]
func (h *ModerationHandler) ToggleDeactivation(c *gin.Context) {
	h.status(h.service.ToggleDeactivation)(c)
}

// Deactivate 停用账号
// @Summary 停用账号
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} response.Response{data=accountModel.PublicAccount}
// @Router /admin/users/{id}/deactivate [post]
func (h *ModerationHandler) Deactivate(c *gin.Context) {
	h.status(h.service.Deactivate)(c)
}

// Reactivate 恢复账号
// @Summary 恢复账号
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} response.Response{data=accountModel.PublicAccount}
// @Router /admin/users/{id}/reactivate [post]
func (h *ModerationHandler) Reactivate(c *gin.Context) {
	h.status(h.service.Reactivate)(c)
}

// Warn 警告用户
// @Summary 警告用户
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} response.Response{data=accountModel.PublicAccount}
// @Router /admin/users/{id}/warn [post]
func (h *ModerationHandler) Warn(c *gin.Context) {
	acc, err := h.service.Warn(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Notice(c, acc.Public(), "Warning issued to user.")
}

func (h *ModerationHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCannotDeactivateSelf):
		response.Error(c, http.StatusBadRequest, response.ErrSelfDeactivation, "You cannot deactivate yourself!")
	case errors.Is(err, service.ErrReportNotFound):
		response.Error(c, http.StatusNotFound, response.ErrReportNotFound, "Report not found")
	case errors.Is(err, service.ErrPostNotFound):
		response.Error(c, http.StatusNotFound, response.ErrPostNotFound, "Post not found")
	case errors.Is(err, service.ErrAccountNotFound):
		response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}
