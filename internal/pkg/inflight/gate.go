// Package inflight 限制同一个会话同时只能有一个翻译请求
package inflight

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Gate 互斥门
//
// Acquire 成功时返回本次占用的 token，Release 只释放 token 匹配的占用，
// 过期后被别人重新占用的门不会被旧请求误释放
type Gate interface {
	// Acquire 已被占用时返回 ok=false
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

type hold struct {
	token string
	until time.Time
}

// MemoryGate 单实例部署使用
type MemoryGate struct {
	mu   sync.Mutex
	held map[string]hold
	now  func() time.Time
}

func NewMemoryGate() *MemoryGate {
	return &MemoryGate{held: make(map[string]hold), now: time.Now}
}

func (g *MemoryGate) Acquire(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if h, ok := g.held[key]; ok && g.now().Before(h.until) {
		return "", false, nil
	}
	token := uuid.NewString()
	g.held[key] = hold{token: token, until: g.now().Add(ttl)}
	return token, true, nil
}

func (g *MemoryGate) Release(_ context.Context, key, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if h, ok := g.held[key]; ok && h.token == token {
		delete(g.held, key)
	}
	return nil
}

// releaseScript 比较 token 后再删除，保证只释放自己的占用
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGate 多实例共享，基于 SET NX + 过期时间
type RedisGate struct {
	client *redis.Client
	prefix string
}

func NewRedisGate(client *redis.Client, prefix string) *RedisGate {
	return &RedisGate{client: client, prefix: prefix + "inflight:"}
}

func (g *RedisGate) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, g.prefix+key, token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (g *RedisGate) Release(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, g.client, []string{g.prefix + key}, token).Err()
}

// New 有 redis 时用 RedisGate
func New(client *redis.Client, prefix string) Gate {
	if client != nil {
		return NewRedisGate(client, prefix)
	}
	return NewMemoryGate()
}
