package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pawsay/internal/domain/session/model"
	sessionService "pawsay/internal/domain/session/service"
	"pawsay/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver map[string]*model.Session

func (f fakeResolver) Restore(_ context.Context, token string) (*model.Session, error) {
	switch token {
	case "deactivated":
		return nil, sessionService.ErrAccountDeactivated
	}
	sess, ok := f[token]
	if !ok {
		return nil, sessionService.ErrInvalidToken
	}
	return sess, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		response.Success(c, CurrentSession(c).ID)
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, token string) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

var sessions = fakeResolver{
	"guest": {ID: "s-guest", Guest: true},
	"member": {ID: "s-member", AccountID: "a1",
		Account: &model.AccountSnapshot{Username: "bob"}},
	"subscriber": {ID: "s-sub", AccountID: "a2",
		Account: &model.AccountSnapshot{Username: "sue", IsSubscribed: true}},
	"admin": {ID: "s-admin", AccountID: "a3",
		Account: &model.AccountSnapshot{Username: "admin", IsAdmin: true}},
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(sessions))

	w, _ := do(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := do(r, "bogus")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrTokenInvalid, body.Code)

	w, body = do(r, "deactivated")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.ErrAccountDeactivated, body.Code)

	w, body = do(r, "guest")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s-guest", body.Data)
}

func TestGuards(t *testing.T) {
	tests := []struct {
		name  string
		guard gin.HandlerFunc
		token string
		want  int
	}{
		{"guest needs account", RequireAccount(), "guest", http.StatusUnauthorized},
		{"member has account", RequireAccount(), "member", http.StatusOK},
		{"guest needs subscription", RequireSubscription(), "guest", http.StatusForbidden},
		{"member needs subscription", RequireSubscription(), "member", http.StatusForbidden},
		{"subscriber passes", RequireSubscription(), "subscriber", http.StatusOK},
		{"member is not admin", AdminMiddleware(), "member", http.StatusForbidden},
		{"guest is not admin", AdminMiddleware(), "guest", http.StatusUnauthorized},
		{"admin passes", AdminMiddleware(), "admin", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(AuthMiddleware(sessions), tt.guard)
			w, _ := do(r, tt.token)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewKeyedRateLimiter(0, 2)
	r := newRouter(AuthMiddleware(sessions), RateLimitMiddleware(limiter, BySession))

	for i := 0; i < 2; i++ {
		w, _ := do(r, "member")
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w, body := do(r, "member")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, response.ErrTooManyRequests, body.Code)

	// 另一个会话不受影响
	w, _ = do(r, "admin")
	assert.Equal(t, http.StatusOK, w.Code)
}
