package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record 数据库中的一条命名记录
type Record struct {
	Key       string    `gorm:"column:record_key;primaryKey;size:128"`
	Value     string    `gorm:"column:value;type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName 表名
func (Record) TableName() string {
	return "pawsay_records"
}

// GormStore PostgreSQL 实现
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建数据库存储，表结构由 cmd/migrate 维护
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec Record
	if err := s.db.WithContext(ctx).Where("record_key = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gorm get %s: %w", key, err)
	}
	return []byte(rec.Value), nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	return upsert(s.db.WithContext(ctx), key, value)
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("record_key = ?", key).Delete(&Record{}).Error
}

// Update 在事务内先取 key 级别的 advisory lock，保证同一集合只有一个写者
func (s *GormStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error; err != nil {
			return fmt.Errorf("lock %s: %w", key, err)
		}

		var rec Record
		found := true
		if err := tx.Where("record_key = ?", key).First(&rec).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("gorm get %s: %w", key, err)
			}
			found = false
		}

		next, err := fn([]byte(rec.Value), found)
		if err != nil {
			return err
		}
		return upsert(tx, key, next)
	})
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func upsert(db *gorm.DB, key string, value []byte) error {
	rec := Record{Key: key, Value: string(value), UpdatedAt: time.Now()}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("gorm upsert %s: %w", key, err)
	}
	return nil
}
