package community

import (
	"pawsay/internal/domain/community/handler"
	"pawsay/internal/domain/community/repository"
	"pawsay/internal/domain/community/service"
	"pawsay/internal/pkg/middleware"
	"pawsay/internal/pkg/registry"
)

type CommunityModule struct{}

func init() {
	registry.Register(&CommunityModule{})
}

func (m *CommunityModule) Name() string {
	return "community"
}

func (m *CommunityModule) Priority() int {
	return 20
}

func (m *CommunityModule) Init(ctx *registry.ModuleContext) error {
	posts := repository.NewPostRepository(ctx.Store)
	reports := repository.NewReportRepository(ctx.Store)
	svc := service.NewCommunityService(posts, reports, ctx.Notifier, ctx.Metrics, ctx.Clock, ctx.Logger.Named("community"))
	ctx.Services.Community = svc
	h := handler.NewCommunityHandler(svc)

	// 社区仅对已登录且已订阅的账号开放
	g := ctx.Router.Group("/community", ctx.Auth(), middleware.RequireSubscription())
	{
		g.GET("/feed", h.Feed)
		g.POST("/posts", h.CreatePost)
		g.POST("/posts/:id/like", h.ToggleLike)
		g.POST("/posts/:id/report", h.Report)
		g.POST("/posts/:id/comments", h.Comment)
	}
	return nil
}
