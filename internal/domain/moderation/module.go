package moderation

import (
	communityRepository "pawsay/internal/domain/community/repository"
	"pawsay/internal/domain/moderation/handler"
	"pawsay/internal/domain/moderation/service"
	"pawsay/internal/pkg/middleware"
	"pawsay/internal/pkg/registry"
)

// ModerationModule 管理后台模块
type ModerationModule struct{}

func init() {
	registry.Register(&ModerationModule{})
}

func (m *ModerationModule) Name() string {
	return "moderation"
}

func (m *ModerationModule) Priority() int {
	return 30
}

func (m *ModerationModule) Init(ctx *registry.ModuleContext) error {
	svc := service.NewModerationService(
		communityRepository.NewPostRepository(ctx.Store),
		communityRepository.NewReportRepository(ctx.Store),
		ctx.Services.Accounts,
		ctx.Notifier,
		ctx.Metrics,
		ctx.Logger.Named("moderation"),
	)
	h := handler.NewModerationHandler(svc)

	admin := ctx.Router.Group("/admin", ctx.Auth(), middleware.AdminMiddleware())
	{
		admin.GET("/reports", h.ListReports)
		admin.DELETE("/reports/:id", h.DismissReport)
		admin.GET("/posts", h.ListPosts)
		admin.DELETE("/posts/:id", h.DeletePost)
		admin.GET("/users", h.ListUsers)
		admin.POST("/users/:id/toggle-deactivation", h.ToggleDeactivation)
		admin.POST("/users/:id/deactivate", h.Deactivate)
		admin.POST("/users/:id/reactivate", h.Reactivate)
		admin.POST("/users/:id/warn", h.Warn)
	}
	return nil
}
