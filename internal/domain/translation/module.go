package translation

import (
	"context"
	"errors"
	"pawsay/internal/domain/translation/client"
	"pawsay/internal/domain/translation/handler"
	"pawsay/internal/domain/translation/service"
	"pawsay/internal/pkg/middleware"
	"pawsay/internal/pkg/registry"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type TranslationModule struct{}

func init() {
	registry.Register(&TranslationModule{})
}

func (m *TranslationModule) Name() string {
	return "translation"
}

func (m *TranslationModule) Priority() int {
	return 40
}

func (m *TranslationModule) Init(ctx *registry.ModuleContext) error {
	log := ctx.Logger.Named("translation")

	var generator service.Generator
	gen, err := client.NewGenAIClient(context.Background(), ctx.Config.Gemini)
	switch {
	case errors.Is(err, client.ErrNoAPIKey):
		log.Warn("gemini api key not configured, translation disabled")
		generator = client.Disabled{}
	case err != nil:
		return err
	default:
		generator = gen
	}

	svc := service.NewTranslationService(generator, ctx.Images, ctx.Config.Gemini.Timeout, log)
	h := handler.NewTranslationHandler(svc, ctx.Services.Pets, ctx.Services.Sessions, ctx.Gate, ctx.Metrics, handler.Options{
		Recording: ctx.Config.Recording,
		BusyTTL:   2*ctx.Config.Gemini.Timeout + 10*time.Second,
	})

	perMinute := ctx.Config.RateLimit.TranslatePerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	limiter := middleware.NewKeyedRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)

	ctx.Router.POST("/translate",
		ctx.Auth(),
		middleware.RateLimitMiddleware(limiter, middleware.BySession),
		h.Translate,
	)
	log.Debug("translation routes registered", zap.String("model", ctx.Config.Gemini.Model))
	return nil
}
