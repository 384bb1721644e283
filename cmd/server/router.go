package main

import (
	"pawsay/internal/pkg/config"
	"pawsay/internal/pkg/middleware"
	"pawsay/pkg/metrics"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// newRouter 全局中间件，模块路由在 registry.InitModules 中注册
func newRouter(cfg config.Config, log *zap.Logger, collector *metrics.Collector) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Device-ID", "X-Trace-ID"},
		ExposeHeaders:    []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.CORSOrigins) == 0 || slices.Contains(cfg.Server.CORSOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.CORSOrigins
	}

	limiter := middleware.NewKeyedRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)

	r.Use(
		gin.Recovery(),
		cors.New(corsCfg),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(log.Named("http")),
		middleware.MetricsMiddleware(collector),
		middleware.RateLimitMiddleware(limiter, middleware.ByClientIP),
	)
	return r
}
