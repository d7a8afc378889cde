package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
)

type stubAuthenticator struct {
	token string
	err   error
}

func (s *stubAuthenticator) Login(username, password string) (string, error) {
	return s.token, s.err
}

func (s *stubAuthenticator) ValidateToken(tokenString string) (*domain.Claims, error) {
	return nil, s.err
}

func TestLogin_Success(t *testing.T) {
	service := &stubAuthenticator{token: "signed-token"}

	req := httptest.NewRequest("POST", "/v1/login", strings.NewReader(`{"username":"admin","password":"adminpass"}`))
	rec := httptest.NewRecorder()
	Login(service).ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signed-token", resp.Token)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	service := &stubAuthenticator{
		err: authenticating.NewAuthError(authenticating.ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, ""),
	}

	req := httptest.NewRequest("POST", "/v1/login", strings.NewReader(`{"username":"admin","password":"nope"}`))
	rec := httptest.NewRecorder()
	Login(service).ServeHTTP(rec, req)

	require.Equal(t, 401, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "AUTH_001", payload["code"])
}

func TestLogin_MalformedBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/v1/login", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	Login(&stubAuthenticator{}).ServeHTTP(rec, req)

	require.Equal(t, 400, rec.Code)
}

func TestGetMe(t *testing.T) {
	claims := &domain.Claims{Username: "admin", Role: domain.RoleAdmin}

	req := httptest.NewRequest("GET", "/v1/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.ContextKeySession, claims))
	rec := httptest.NewRecorder()
	GetMe().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "admin", payload["username"])
	assert.Equal(t, "admin", payload["role"])
}

func TestGetMe_NoSession(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/me", nil)
	rec := httptest.NewRecorder()
	GetMe().ServeHTTP(rec, req)

	require.Equal(t, 401, rec.Code)
}
