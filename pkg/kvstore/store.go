// Package kvstore 是本地持久化适配层：以命名记录的形式存取整块 JSON 数据。
//
// 每个集合（账号、宠物档案、帖子、举报、会话、同意标记）对应一条记录，
// 修改总是"读取整个集合 -> 修改 -> 整体写回"。Update 在存储层面保证同一个
// key 同一时刻只有一个写者。
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("kvstore: record not found")

// UpdateFunc 接收当前值（不存在时 found=false），返回要写回的新值
// 返回 error 时放弃本次写入，Update 原样返回该 error
type UpdateFunc func(current []byte, found bool) ([]byte, error)

// Store 命名记录存储
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Update 原子地执行读-改-写
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Close() error
}

// 集合记录的 key，与前端 localStorage 中的命名保持一致
const (
	KeyAccounts = "pawsay_users"
	KeyProfiles = "pawsay_profiles"
	KeyPosts    = "pawsay_community_posts"
	KeyReports  = "pawsay_admin_reports"
	KeySessions = "pawsay_sessions"
	KeyConsent  = "pawsay_terms_accepted"
)
