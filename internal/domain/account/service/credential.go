package service

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// CredentialHasher 密码存储策略
// 调用方只通过该接口读写密码，便于替换存储方式
type CredentialHasher interface {
	Hash(password string) (string, error)
	Verify(stored, password string) bool
}

// BcryptHasher 默认实现
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// PlainHasher 明文存储，仅用于本地演示，prod 环境配置校验会拒绝
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) {
	return password, nil
}

func (PlainHasher) Verify(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// NewCredentialHasher 根据配置选择实现
func NewCredentialHasher(mode string) CredentialHasher {
	if mode == "plain" {
		return PlainHasher{}
	}
	return NewBcryptHasher(0)
}
