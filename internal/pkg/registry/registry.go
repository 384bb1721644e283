package registry

import (
	"sort"

	accountService "pawsay/internal/domain/account/service"
	communityService "pawsay/internal/domain/community/service"
	petService "pawsay/internal/domain/pet/service"
	sessionService "pawsay/internal/domain/session/service"
	"pawsay/internal/pkg/config"
	"pawsay/internal/pkg/inflight"
	"pawsay/internal/pkg/middleware"
	"pawsay/internal/pkg/notify"
	"pawsay/internal/pkg/uploader"
	"pawsay/pkg/kvstore"
	"pawsay/pkg/metrics"
	"pawsay/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services 已初始化的领域服务，按模块优先级依次填充
type Services struct {
	Accounts  accountService.AccountService
	Sessions  sessionService.SessionService
	Pets      petService.PetService
	Community communityService.CommunityService
}

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	Config   config.Config
	Store    kvstore.Store
	Redis    *redis.Client // 未配置 redis 时为 nil
	Router   *gin.Engine
	Logger   *zap.Logger
	Metrics  *metrics.Collector
	Tokens   *utils.TokenManager
	Clock    clockwork.Clock
	Images   uploader.Store
	Notifier notify.Notifier
	Gate     inflight.Gate
	Services *Services
}

// Auth 已登录（含游客）路由使用的认证中间件
func (c *ModuleContext) Auth() gin.HandlerFunc {
	return middleware.AuthMiddleware(c.Services.Sessions)
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	// 例如：account 模块需要先于 community 模块初始化
	Priority() int
}

// moduleRegistry 全局模块注册表
var moduleRegistry = make(map[string]Module)

// Register 注册模块
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules 获取所有已注册的模块
func GetModules() map[string]Module {
	return moduleRegistry
}

// InitModules 按优先级初始化所有模块
func InitModules(ctx *ModuleContext) error {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Priority() != modules[j].Priority() {
			return modules[i].Priority() < modules[j].Priority()
		}
		return modules[i].Name() < modules[j].Name()
	})

	if ctx.Services == nil {
		ctx.Services = &Services{}
	}
	for _, module := range modules {
		if err := module.Init(ctx); err != nil {
			return err
		}
		ctx.Logger.Debug("module initialized", zap.String("module", module.Name()))
	}

	return nil
}
