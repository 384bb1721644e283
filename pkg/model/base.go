package model

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel 基础模型，所有记录共用 UUID 主键与创建时间
// 记录以 JSON 形式整体存放在 kvstore 中，不再依赖 gorm 的行模型
type BaseModel struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewBaseModel 生成新的 ID 与创建时间
func NewBaseModel(now time.Time) BaseModel {
	return BaseModel{
		ID:        uuid.New().String(),
		CreatedAt: now,
	}
}
