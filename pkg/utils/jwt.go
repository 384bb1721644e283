package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "pawsay"

// Claims 自定义JWT Claims
// token 只携带会话 ID，账号状态以服务端会话记录为准
type Claims struct {
	SessionID string `json:"session_id"`
	AccountID string `json:"account_id,omitempty"`
	Guest     bool   `json:"guest,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager 负责签发与校验会话 token
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager 创建 token 管理器
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// TTL 返回 token 有效期
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// GenerateToken 生成JWT Token
func (m *TokenManager) GenerateToken(sessionID, accountID string, guest bool, now time.Time) (string, time.Time, error) {
	expireTime := now.Add(m.ttl)

	claims := Claims{
		SessionID: sessionID,
		AccountID: accountID,
		Guest:     guest,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expireTime),
			Issuer:    tokenIssuer,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expireTime, nil
}

// ParseToken 验证JWT Token
func (m *TokenManager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.SessionID == "" {
		return nil, errors.New("token has no session")
	}
	return claims, nil
}
