package repository

import (
	"context"
	"errors"
	"pawsay/internal/domain/session/model"
	"pawsay/pkg/kvstore"
	"time"
)

var ErrNotFound = errors.New("session not found")

// SessionRepository 会话与条款同意的存储
type SessionRepository interface {
	// Create 写入新会话，同时清理已过期的会话
	Create(ctx context.Context, sess *model.Session, now time.Time) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Update(ctx context.Context, id string, fn func(sess *model.Session) error) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteByAccount 删除账号的全部会话，返回删除数量
	DeleteByAccount(ctx context.Context, accountID string) (int, error)
	// UpdateByAccount 对账号的全部会话执行 fn
	UpdateByAccount(ctx context.Context, accountID string, fn func(sess *model.Session)) error

	AcceptConsent(ctx context.Context, deviceID string, at time.Time) error
	HasConsent(ctx context.Context, deviceID string) (bool, error)
}

type sessionRepository struct {
	sessions *kvstore.Collection[model.Session]
	consent  *kvstore.Collection[model.Consent]
}

// NewSessionRepository 创建会话仓库
func NewSessionRepository(store kvstore.Store) SessionRepository {
	return &sessionRepository{
		sessions: kvstore.NewCollection[model.Session](store, kvstore.KeySessions),
		consent:  kvstore.NewCollection[model.Consent](store, kvstore.KeyConsent),
	}
}

func (r *sessionRepository) Create(ctx context.Context, sess *model.Session, now time.Time) error {
	_, err := r.sessions.Mutate(ctx, func(items []model.Session) ([]model.Session, error) {
		kept := items[:0]
		for _, s := range items {
			if !s.Expired(now) {
				kept = append(kept, s)
			}
		}
		return append(kept, *sess), nil
	})
	return err
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	items, err := r.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			sess := items[i]
			return &sess, nil
		}
	}
	return nil, ErrNotFound
}

func (r *sessionRepository) Update(ctx context.Context, id string, fn func(sess *model.Session) error) (*model.Session, error) {
	var updated model.Session
	_, err := r.sessions.Mutate(ctx, func(items []model.Session) ([]model.Session, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if err := fn(&items[i]); err != nil {
				return nil, err
			}
			updated = items[i]
			return items, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.sessions.Mutate(ctx, func(items []model.Session) ([]model.Session, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return items, nil
	})
	return err
}

func (r *sessionRepository) DeleteByAccount(ctx context.Context, accountID string) (int, error) {
	removed := 0
	_, err := r.sessions.Mutate(ctx, func(items []model.Session) ([]model.Session, error) {
		kept := items[:0]
		for _, s := range items {
			if s.AccountID == accountID && !s.Guest {
				removed++
				continue
			}
			kept = append(kept, s)
		}
		return kept, nil
	})
	return removed, err
}

func (r *sessionRepository) UpdateByAccount(ctx context.Context, accountID string, fn func(sess *model.Session)) error {
	_, err := r.sessions.Mutate(ctx, func(items []model.Session) ([]model.Session, error) {
		for i := range items {
			if items[i].AccountID == accountID && !items[i].Guest {
				fn(&items[i])
			}
		}
		return items, nil
	})
	return err
}

func (r *sessionRepository) AcceptConsent(ctx context.Context, deviceID string, at time.Time) error {
	_, err := r.consent.Mutate(ctx, func(items []model.Consent) ([]model.Consent, error) {
		for _, c := range items {
			if c.DeviceID == deviceID {
				return items, nil
			}
		}
		return append(items, model.Consent{DeviceID: deviceID, AcceptedAt: at}), nil
	})
	return err
}

func (r *sessionRepository) HasConsent(ctx context.Context, deviceID string) (bool, error) {
	items, err := r.consent.Load(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range items {
		if c.DeviceID == deviceID {
			return true, nil
		}
	}
	return false, nil
}
