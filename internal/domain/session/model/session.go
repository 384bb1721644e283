package model

import (
	accountModel "pawsay/internal/domain/account/model"
	"time"
)

// GuestOwnerID 游客创建的宠物档案统一归属该哨兵 ID
const GuestOwnerID = "guest"

// AccountSnapshot 会话中缓存的账号状态，每次请求都会与账号记录对齐
type AccountSnapshot struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
	IsSubscribed  bool   `json:"isSubscribed"`
	IsAdmin       bool   `json:"isAdmin"`
	IsDeactivated bool   `json:"isDeactivated"`
	Warnings      int    `json:"warnings"`
}

// SnapshotOf 从账号记录生成快照
func SnapshotOf(acc accountModel.Account) *AccountSnapshot {
	return &AccountSnapshot{
		Username:      acc.Username,
		Email:         acc.Email,
		AvatarURL:     acc.AvatarURL,
		IsSubscribed:  acc.IsSubscribed,
		IsAdmin:       acc.IsAdmin,
		IsDeactivated: acc.IsDeactivated,
		Warnings:      acc.Warnings,
	}
}

// Session 服务端会话
type Session struct {
	ID                string           `json:"id"`
	AccountID         string           `json:"accountId,omitempty"`
	Guest             bool             `json:"guest"`
	DeviceID          string           `json:"deviceId,omitempty"`
	SelectedProfileID string           `json:"selectedProfileId,omitempty"`
	Account           *AccountSnapshot `json:"account,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	ExpiresAt         time.Time        `json:"expiresAt"`
}

// OwnerID 宠物档案归属 ID
func (s *Session) OwnerID() string {
	if s.Guest || s.AccountID == "" {
		return GuestOwnerID
	}
	return s.AccountID
}

// Registered 是否已登录账号
func (s *Session) Registered() bool {
	return !s.Guest && s.AccountID != "" && s.Account != nil
}

func (s *Session) IsAdmin() bool {
	return s.Registered() && s.Account.IsAdmin
}

func (s *Session) IsSubscribed() bool {
	return s.Registered() && s.Account.IsSubscribed
}

// ConsentDevice 同意条款按设备记录，未提供设备号时退化为会话 ID
func (s *Session) ConsentDevice() string {
	if s.DeviceID != "" {
		return s.DeviceID
	}
	return s.ID
}

// Expired 会话是否过期
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Consent 设备级的条款同意记录
type Consent struct {
	DeviceID   string    `json:"deviceId"`
	AcceptedAt time.Time `json:"acceptedAt"`
}
