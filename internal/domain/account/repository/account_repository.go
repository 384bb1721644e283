package repository

import (
	"context"
	"errors"
	"pawsay/internal/domain/account/model"
	"pawsay/pkg/kvstore"
)

var (
	ErrNotFound    = errors.New("account not found")
	ErrEmailExists = errors.New("email already registered")
)

// AccountRepository 接口定义
type AccountRepository interface {
	List(ctx context.Context) ([]model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	// Create 在同一次写入里检查邮箱唯一；prepare 拿到"是否首个账号"后补全字段
	Create(ctx context.Context, acc *model.Account, prepare func(acc *model.Account, first bool)) error
	// Update 原子修改单个账号并返回修改后的副本
	Update(ctx context.Context, id string, fn func(acc *model.Account) error) (*model.Account, error)
}

// accountRepository 基于 kvstore 集合的实现
type accountRepository struct {
	accounts *kvstore.Collection[model.Account]
}

// NewAccountRepository 创建新的仓库实例
func NewAccountRepository(store kvstore.Store) AccountRepository {
	return &accountRepository{accounts: kvstore.NewCollection[model.Account](store, kvstore.KeyAccounts)}
}

func (r *accountRepository) List(ctx context.Context) ([]model.Account, error) {
	return r.accounts.Load(ctx)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return r.find(ctx, func(a *model.Account) bool { return a.ID == id })
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.find(ctx, func(a *model.Account) bool { return a.Email == email })
}

func (r *accountRepository) Create(ctx context.Context, acc *model.Account, prepare func(acc *model.Account, first bool)) error {
	_, err := r.accounts.Mutate(ctx, func(items []model.Account) ([]model.Account, error) {
		for i := range items {
			if items[i].Email == acc.Email {
				return nil, ErrEmailExists
			}
		}
		if prepare != nil {
			prepare(acc, len(items) == 0)
		}
		return append(items, *acc), nil
	})
	return err
}

func (r *accountRepository) Update(ctx context.Context, id string, fn func(acc *model.Account) error) (*model.Account, error) {
	var updated model.Account
	_, err := r.accounts.Mutate(ctx, func(items []model.Account) ([]model.Account, error) {
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

func (r *accountRepository) find(ctx context.Context, match func(a *model.Account) bool) (*model.Account, error) {
	items, err := r.accounts.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if match(&items[i]) {
			acc := items[i]
			return &acc, nil
		}
	}
	return nil, ErrNotFound
}
