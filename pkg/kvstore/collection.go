package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection 以 JSON 数组形式保存在单个 key 下的类型化集合
type Collection[T any] struct {
	store Store
	key   string
}

// NewCollection 创建集合
func NewCollection[T any](store Store, key string) *Collection[T] {
	return &Collection[T]{store: store, key: key}
}

// Key 返回集合对应的记录名
func (c *Collection[T]) Key() string {
	return c.key
}

// Load 读取整个集合，记录不存在时返回空集合
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	return decode[T](c.key, raw)
}

// Mutate 原子地修改整个集合并立即写回，返回写回后的集合
func (c *Collection[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, error)) ([]T, error) {
	var result []T
	err := c.store.Update(ctx, c.key, func(current []byte, found bool) ([]byte, error) {
		items := []T{}
		if found {
			decoded, err := decode[T](c.key, current)
			if err != nil {
				return nil, err
			}
			items = decoded
		}

		next, err := fn(items)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []T{}
		}

		data, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", c.key, err)
		}
		result = next
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Replace 整体覆盖集合
func (c *Collection[T]) Replace(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	return c.store.Set(ctx, c.key, data)
}

func decode[T any](key string, raw []byte) ([]T, error) {
	if len(raw) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
