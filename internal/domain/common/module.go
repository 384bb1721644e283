package common

import (
	commonHandler "pawsay/internal/pkg/common"
	"pawsay/internal/pkg/middleware"
	"pawsay/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	h := commonHandler.NewCommonHandler(ctx.Images, ctx.Store)

	// 图片上传仅对注册用户开放
	ctx.Router.POST("/upload", ctx.Auth(), middleware.RequireAccount(), h.UploadFile)
	ctx.Router.GET("/healthz", h.Health)
	ctx.Router.GET("/metrics", gin.WrapH(ctx.Metrics.Handler()))
	ctx.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return nil
}
