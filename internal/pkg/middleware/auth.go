package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pawsay/internal/domain/session/model"
	sessionService "pawsay/internal/domain/session/service"
	"pawsay/pkg/response"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// SessionResolver 根据 token 恢复服务端会话
type SessionResolver interface {
	Restore(ctx context.Context, token string) (*model.Session, error)
}

// AuthMiddleware JWT认证中间件，成功后把会话放入上下文
func AuthMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Authorization header is required")
			return
		}

		// 检查格式 "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid authorization header format")
			return
		}

		sess, err := resolver.Restore(c.Request.Context(), parts[1])
		switch {
		case err == nil:
		case errors.Is(err, sessionService.ErrAccountDeactivated):
			response.Abort(c, http.StatusForbidden, response.ErrAccountDeactivated, "Your account has been deactivated.")
			return
		case errors.Is(err, sessionService.ErrInvalidToken), errors.Is(err, sessionService.ErrSessionNotFound):
			response.Abort(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			return
		default:
			response.Abort(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to restore session")
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession 读取 AuthMiddleware 写入的会话
func CurrentSession(c *gin.Context) *model.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*model.Session)
	return sess
}

// SetSession 测试与内部路由使用
func SetSession(c *gin.Context, sess *model.Session) {
	c.Set(sessionKey, sess)
}

// RequireAccount 需要已登录账号（非游客）
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil || !sess.Registered() {
			response.Abort(c, http.StatusUnauthorized, response.ErrNoPermission, "Please log in first.")
			return
		}
		c.Next()
	}
}

// RequireSubscription 社区功能仅对已订阅账号开放
func RequireSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil || !sess.IsSubscribed() {
			response.Abort(c, http.StatusForbidden, response.ErrSubscription, "Please log in and subscribe to join the community.")
			return
		}
		c.Next()
	}
}

// AdminMiddleware 管理员权限中间件
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil || !sess.Registered() {
			response.Abort(c, http.StatusUnauthorized, response.ErrNoPermission, "Unauthorized")
			return
		}
		if !sess.IsAdmin() {
			response.Abort(c, http.StatusForbidden, response.ErrNoPermission, "Admin permission required")
			return
		}
		c.Next()
	}
}
