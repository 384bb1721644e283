package kvstore

import "context"

// observedStore 在每次成功写入后回调，用于指标统计
type observedStore struct {
	Store
	onWrite func(key string)
}

// Observe 包装 Store，写入成功后调用 onWrite
func Observe(s Store, onWrite func(key string)) Store {
	if onWrite == nil {
		return s
	}
	return &observedStore{Store: s, onWrite: onWrite}
}

func (o *observedStore) Set(ctx context.Context, key string, value []byte) error {
	if err := o.Store.Set(ctx, key, value); err != nil {
		return err
	}
	o.onWrite(key)
	return nil
}

func (o *observedStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := o.Store.Update(ctx, key, fn); err != nil {
		return err
	}
	o.onWrite(key)
	return nil
}
