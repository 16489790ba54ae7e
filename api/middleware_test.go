package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beratbaran/flyticket/internal/domain"
	"github.com/beratbaran/flyticket/internal/service/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthUseCase) VerifyToken(token string) (*auth.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func (m *MockAuthUseCase) EnsureAdmin(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

func protectedRouter(service auth.AuthUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/flights", RequireAuth(service), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	mockService := &MockAuthUseCase{}
	router := protectedRouter(mockService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/flights", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "VerifyToken")
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	mockService := &MockAuthUseCase{}
	router := protectedRouter(mockService)

	mockService.On("VerifyToken", "bad-token").Return(nil, domain.ErrUnauthorized).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/flights", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertExpectations(t)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	mockService := &MockAuthUseCase{}
	router := protectedRouter(mockService)

	claims := &auth.Claims{AdminID: "admin-1", Username: "admin"}
	mockService.On("VerifyToken", "good-token").Return(claims, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/flights", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestAuthHandler_login(t *testing.T) {
	mockService := &MockAuthUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(loginRequest{Username: "admin", Password: "s3cret"})
	c.Request = httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Login", c.Request.Context(), "admin", "s3cret").Return("signed-token", nil)

	handler.login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "signed-token")
}

func TestAuthHandler_login_BadCredentials(t *testing.T) {
	mockService := &MockAuthUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(loginRequest{Username: "admin", Password: "wrong"})
	c.Request = httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Login", c.Request.Context(), "admin", "wrong").Return("", domain.ErrUnauthorized)

	handler.login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
