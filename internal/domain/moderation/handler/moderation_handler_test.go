package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	accountModel "pawsay/internal/domain/account/model"
	"pawsay/internal/domain/moderation/service"
	sessionModel "pawsay/internal/domain/session/model"
	"pawsay/internal/pkg/middleware"
	"pawsay/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockModerationService is a mock of ModerationService
type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) ListReports(ctx context.Context) ([]service.ReportView, error) {
	args := m.Called()
	return args.Get(0).([]service.ReportView), args.Error(1)
}

func (m *MockModerationService) DismissReport(ctx context.Context, reportID string) error {
	return m.Called(reportID).Error(0)
}

func (m *MockModerationService) DeletePost(ctx context.Context, postID string) error {
	return m.Called(postID).Error(0)
}

func (m *MockModerationService) ListPosts(ctx context.Context) ([]service.PostSummary, error) {
	args := m.Called()
	return args.Get(0).([]service.PostSummary), args.Error(1)
}

func (m *MockModerationService) ListUsers(ctx context.Context) ([]accountModel.PublicAccount, error) {
	args := m.Called()
	return args.Get(0).([]accountModel.PublicAccount), args.Error(1)
}

func (m *MockModerationService) account(args mock.Arguments) (*accountModel.Account, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountModel.Account), args.Error(1)
}

func (m *MockModerationService) ToggleDeactivation(ctx context.Context, actorID, targetID string) (*accountModel.Account, error) {
	return m.account(m.Called(actorID, targetID))
}

func (m *MockModerationService) Deactivate(ctx context.Context, actorID, targetID string) (*accountModel.Account, error) {
	return m.account(m.Called(actorID, targetID))
}

func (m *MockModerationService) Reactivate(ctx context.Context, actorID, targetID string) (*accountModel.Account, error) {
	return m.account(m.Called(actorID, targetID))
}

func (m *MockModerationService) Warn(ctx context.Context, targetID string) (*accountModel.Account, error) {
	return m.account(m.Called(targetID))
}

func setupRouter(svc service.ModerationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewModerationHandler(svc)
	r := gin.New()
	admin := r.Group("/admin", func(c *gin.Context) {
		middleware.SetSession(c, &sessionModel.Session{
			ID: "s-admin", AccountID: "admin-1",
			Account: &sessionModel.AccountSnapshot{Username: "admin", IsAdmin: true},
		})
		c.Next()
	}, middleware.AdminMiddleware())
	admin.DELETE("/reports/:id", h.DismissReport)
	admin.DELETE("/posts/:id", h.DeletePost)
	admin.POST("/users/:id/toggle-deactivation", h.ToggleDeactivation)
	admin.POST("/users/:id/warn", h.Warn)
	return r
}

func do(r http.Handler, method, path string) (int, response.Response) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var body response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestSelfDeactivation(t *testing.T) {
	svc := new(MockModerationService)
	svc.On("ToggleDeactivation", "admin-1", "admin-1").Return(nil, service.ErrCannotDeactivateSelf)

	status, body := do(setupRouter(svc), http.MethodPost, "/admin/users/admin-1/toggle-deactivation")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "You cannot deactivate yourself!", body.Message)
	svc.AssertExpectations(t)
}

func TestToggleAndWarnNotices(t *testing.T) {
	svc := new(MockModerationService)
	acc := &accountModel.Account{Username: "bob", IsDeactivated: true}
	acc.ID = "bob-1"
	svc.On("ToggleDeactivation", "admin-1", "bob-1").Return(acc, nil)
	svc.On("Warn", "bob-1").Return(&accountModel.Account{Username: "bob", Warnings: 1}, nil)
	r := setupRouter(svc)

	status, body := do(r, http.MethodPost, "/admin/users/bob-1/toggle-deactivation")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User status updated.", body.Message)

	status, body = do(r, http.MethodPost, "/admin/users/bob-1/warn")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Warning issued to user.", body.Message)
}

func TestDeleteAndDismiss(t *testing.T) {
	svc := new(MockModerationService)
	svc.On("DeletePost", "p1").Return(nil)
	svc.On("DeletePost", "p2").Return(service.ErrPostNotFound)
	svc.On("DismissReport", "r1").Return(nil)
	r := setupRouter(svc)

	status, body := do(r, http.MethodDelete, "/admin/posts/p1")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post removed from community feed.", body.Message)

	status, body = do(r, http.MethodDelete, "/admin/posts/p2")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, response.ErrPostNotFound, body.Code)

	status, _ = do(r, http.MethodDelete, "/admin/reports/r1")
	assert.Equal(t, http.StatusOK, status)
}
