package account

import (
	"pawsay/internal/domain/account/handler"
	"pawsay/internal/domain/account/repository"
	"pawsay/internal/domain/account/service"
	sessionRepository "pawsay/internal/domain/session/repository"
	sessionService "pawsay/internal/domain/session/service"
	"pawsay/internal/pkg/middleware"
	"pawsay/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// AccountModule 账号与会话模块
type AccountModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&AccountModule{})
}

func (m *AccountModule) Name() string {
	return "account"
}

func (m *AccountModule) Priority() int {
	// 其他模块都依赖会话，最先初始化
	return 1
}

func (m *AccountModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	accountRepo := repository.NewAccountRepository(ctx.Store)
	hasher := service.NewCredentialHasher(ctx.Config.Auth.PasswordHashing)
	accounts := service.NewAccountService(accountRepo, hasher, ctx.Clock, ctx.Logger.Named("account"))

	sessionRepo := sessionRepository.NewSessionRepository(ctx.Store)
	sessions := sessionService.NewSessionService(sessionRepo, accounts, ctx.Tokens, ctx.Clock, ctx.Logger.Named("session"))

	ctx.Services.Accounts = accounts
	ctx.Services.Sessions = sessions

	// 2. 路由注册
	setupRoutes(ctx.Router, ctx.Auth(), handler.NewAccountHandler(accounts, sessions))

	return nil
}

func setupRoutes(r *gin.Engine, auth gin.HandlerFunc, h *handler.AccountHandler) {
	// 公开路由
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/guest", h.Guest)
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", auth, h.Logout)
	}

	// 受保护的路由
	me := r.Group("/me", auth)
	{
		me.GET("", h.Me)
		me.PUT("/profile", middleware.RequireAccount(), h.UpdateProfile)
		me.POST("/subscribe", middleware.RequireAccount(), h.Subscribe)
	}

	r.GET("/consent", auth, h.Consent)
	r.POST("/consent", auth, h.AcceptTerms)
}
