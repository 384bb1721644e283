package database

import (
	"fmt"
	"pawsay/internal/pkg/config"
	"pawsay/pkg/kvstore"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Resources 启动期间打开的底层连接
// Redis 不一定作为记录存储使用，但配置了就会被 inflight 闸门复用
type Resources struct {
	Store kvstore.Store
	Redis *redis.Client
}

// Open 按 store.driver 打开记录存储
func Open(cfg config.Config, log *zap.Logger) (*Resources, error) {
	res := &Resources{}

	switch cfg.Store.Driver {
	case "memory":
		log.Warn("using in-memory store, data is lost on restart")
		res.Store = kvstore.NewMemoryStore()
	case "postgres":
		db, err := InitDatabase(cfg.Database, log)
		if err != nil {
			return nil, err
		}
		res.Store = kvstore.NewGormStore(db)
	case "redis":
		rdb, err := InitRedis(cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		res.Redis = rdb
		res.Store = kvstore.NewRedisStore(rdb, cfg.Store.Prefix)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return res, nil
}

// Close 关闭所有连接
func (r *Resources) Close() error {
	if r.Store != nil {
		return r.Store.Close()
	}
	return nil
}
