package handler

import (
	"errors"
	"net/http"

	"pawsay/internal/domain/account/model"
	"pawsay/internal/domain/account/service"
	sessionModel "pawsay/internal/domain/session/model"
	sessionService "pawsay/internal/domain/session/service"
	"pawsay/internal/pkg/middleware"
	"pawsay/pkg/response"
	"pawsay/pkg/security"

	"github.com/gin-gonic/gin"
)

// AccountHandler 账号与会话处理器
type AccountHandler struct {
	accounts service.AccountService
	sessions sessionService.SessionService
}

// NewAccountHandler 创建处理器
func NewAccountHandler(accounts service.AccountService, sessions sessionService.SessionService) *AccountHandler {
	return &AccountHandler{accounts: accounts, sessions: sessions}
}

// SignupInput 注册输入
type SignupInput struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	AvatarURL string `json:"avatarUrl"`
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ProfileInput 修改资料输入
type ProfileInput struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

// MeView 当前会话信息
type MeView struct {
	Session *sessionModel.Session `json:"session"`
	Account *model.PublicAccount  `json:"account,omitempty"`
}

// Guest 以游客身份开始会话
// @Summary 游客会话
// @Tags Auth
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Success 200 {object} response.Response{data=sessionService.Issued}
// @Router /auth/guest [post]
func (h *AccountHandler) Guest(c *gin.Context) {
	issued, err := h.sessions.StartGuest(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to start session")
		return
	}
	response.Success(c, issued)
}

// Signup 处理注册请求
// @Summary 注册
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body SignupInput true "Signup"
// @Success 200 {object} response.Response{data=sessionService.Issued}
// @Router /auth/signup [post]
func (h *AccountHandler) Signup(c *gin.Context) {
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	if input.AvatarURL != "" && !security.IsSafeImageURL(input.AvatarURL) {
		response.Error(c, http.StatusBadRequest, response.ErrUnsafeImage, "Invalid avatar image.")
		return
	}

	issued, err := h.sessions.Signup(c.Request.Context(), service.SignupInput{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		AvatarURL: input.AvatarURL,
	}, middleware.DeviceID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, issued)
}

// Login 处理登录请求
// @Summary 登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body LoginInput true "Login"
// @Success 200 {object} response.Response{data=sessionService.Issued}
// @Router /auth/login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	issued, err := h.sessions.Login(c.Request.Context(), input.Email, input.Password, middleware.DeviceID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, issued)
}

// Logout 退出登录
// @Summary 退出
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AccountHandler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := h.sessions.Logout(c.Request.Context(), sess.ID); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to log out")
		return
	}
	response.Success(c, nil)
}

// Me 当前会话与账号
// @Summary 当前会话
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} response.Response{data=MeView}
// @Router /me [get]
func (h *AccountHandler) Me(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	view := MeView{Session: sess}
	if sess.Registered() {
		acc, err := h.accounts.Get(c.Request.Context(), sess.AccountID)
		if err != nil {
			h.fail(c, err)
			return
		}
		pub := acc.Public()
		view.Account = &pub
	}
	response.Success(c, view)
}

// UpdateProfile 修改用户名或头像
// @Summary 修改资料
// @Tags Auth
// @Security BearerAuth
// @Param input body ProfileInput true "Profile"
// @Success 200 {object} response.Response{data=model.PublicAccount}
// @Router /me/profile [put]
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	if input.AvatarURL != "" && !security.IsSafeImageURL(input.AvatarURL) {
		response.Error(c, http.StatusBadRequest, response.ErrUnsafeImage, "Invalid avatar image.")
		return
	}

	acc, err := h.accounts.UpdateProfile(c.Request.Context(), middleware.CurrentSession(c).AccountID, input.Username, input.AvatarURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, acc.Public())
}

// Subscribe 开通订阅
// @Summary 订阅
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.PublicAccount}
// @Router /me/subscribe [post]
func (h *AccountHandler) Subscribe(c *gin.Context) {
	acc, err := h.accounts.Subscribe(c.Request.Context(), middleware.CurrentSession(c).AccountID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Notice(c, acc.Public(), "Welcome to PawSay Premium! The community is now unlocked.")
}

// AcceptTerms 当前设备同意条款
// @Summary 同意条款
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /consent [post]
func (h *AccountHandler) AcceptTerms(c *gin.Context) {
	if err := h.sessions.AcceptConsent(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to record consent")
		return
	}
	response.Success(c, gin.H{"accepted": true})
}

// Consent 查询当前设备是否已同意条款
// @Summary 条款状态
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /consent [get]
func (h *AccountHandler) Consent(c *gin.Context) {
	ok, err := h.sessions.HasConsent(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to read consent")
		return
	}
	response.Success(c, gin.H{"accepted": ok})
}

func (h *AccountHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		response.Error(c, http.StatusConflict, response.ErrUserExists, "An account with this email already exists.")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "Invalid email or password.")
	case errors.Is(err, service.ErrAccountDeactivated):
		response.Error(c, http.StatusForbidden, response.ErrAccountDeactivated, "Your account has been deactivated.")
	case errors.Is(err, service.ErrEmptyUsername):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Username is required.")
	case errors.Is(err, service.ErrAccountNotFound):
		response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "Account not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}
