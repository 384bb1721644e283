package model

import (
	baseModel "pawsay/pkg/model"
)

// Account 账号模型
// Password 保存的是 CredentialHasher 处理后的结果，只在存储层出现
type Account struct {
	baseModel.BaseModel
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
	IsSubscribed  bool   `json:"isSubscribed"`
	IsAdmin       bool   `json:"isAdmin"`
	IsDeactivated bool   `json:"isDeactivated"`
	Warnings      int    `json:"warnings"`
}

// PublicAccount 返回给前端的账号信息，不含密码
type PublicAccount struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
	IsSubscribed  bool   `json:"isSubscribed"`
	IsAdmin       bool   `json:"isAdmin"`
	IsDeactivated bool   `json:"isDeactivated"`
	Warnings      int    `json:"warnings"`
	CreatedAt     int64  `json:"createdAt"`
}

// Public 转换为对外视图
func (a Account) Public() PublicAccount {
	return PublicAccount{
		ID:            a.ID,
		Username:      a.Username,
		Email:         a.Email,
		AvatarURL:     a.AvatarURL,
		IsSubscribed:  a.IsSubscribed,
		IsAdmin:       a.IsAdmin,
		IsDeactivated: a.IsDeactivated,
		Warnings:      a.Warnings,
		CreatedAt:     a.CreatedAt.UnixMilli(),
	}
}
