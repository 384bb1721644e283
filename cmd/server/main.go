package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"pawsay/internal/pkg/config"
	"pawsay/internal/pkg/inflight"
	"pawsay/internal/pkg/notify"
	"pawsay/internal/pkg/registry"
	"pawsay/internal/pkg/uploader"
	"pawsay/internal/pkg/worker"
	"pawsay/pkg/database"
	"pawsay/pkg/kvstore"
	"pawsay/pkg/logger"
	"pawsay/pkg/metrics"
	"pawsay/pkg/utils"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "pawsay/docs"
	_ "pawsay/internal/domain/account"
	_ "pawsay/internal/domain/common"
	_ "pawsay/internal/domain/community"
	_ "pawsay/internal/domain/moderation"
	_ "pawsay/internal/domain/pet"
	_ "pawsay/internal/domain/translation"
)

// @title PawSay API
// @version 1.0
// @description Pet sound translation with a community feed and moderation console.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadConfig()
	cfg := config.GlobalConfig

	log, err := logger.Init(cfg.App.Env, cfg.App.Debug)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
	log.Info("server stopped")
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := database.Open(cfg, log)
	if err != nil {
		return err
	}
	defer res.Close()

	collector := metrics.NewCollector()
	images, err := uploader.New(cfg.OSS, cfg.Recording.MaxUploadBytes)
	if err != nil {
		return err
	}
	pool := worker.NewWorkerPool(notify.Senders(cfg, log.Named("notify")), cfg.Worker, log.Named("worker"), collector)

	router := newRouter(cfg, log, collector)
	mctx := &registry.ModuleContext{
		Config:   cfg,
		Store:    kvstore.Observe(res.Store, collector.StoreMutation),
		Redis:    res.Redis,
		Router:   router,
		Logger:   log,
		Metrics:  collector,
		Tokens:   utils.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.Expire)*time.Hour),
		Clock:    clockwork.NewRealClock(),
		Images:   images,
		Notifier: notify.NewDispatcher(pool),
		Gate:     inflight.New(res.Redis, cfg.Store.Prefix),
	}
	if err := registry.InitModules(mctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pool.Start(gctx)
		<-gctx.Done()
		pool.Stop()
		return nil
	})
	g.Go(func() error {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
