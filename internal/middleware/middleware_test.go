package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"laily-api/internal/apperr"
	"laily-api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth struct {
	users map[string]*models.User
	err   error
}

func (s stubAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.Unauthenticated("no token provided")
	}
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[token]
	if !ok {
		return nil, apperr.Unauthenticated("invalid token")
	}
	return u, nil
}

func newRouter(auth Authenticator) *gin.Engine {
	r := gin.New()
	r.GET("/me", Authenticate(auth), func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": u.Email})
	})
	r.GET("/admin", Authenticate(auth), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func perform(r http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func TestAuthenticate(t *testing.T) {
	auth := stubAuth{users: map[string]*models.User{
		"customer-token": {Email: "kim@laily.kr", Role: models.RoleCustomer},
		"admin-token":    {Email: "admin@laily.kr", Role: models.RoleAdmin},
	}}
	r := newRouter(auth)

	cases := []struct {
		name, path, header string
		status             int
		message            string
	}{
		{"missing header", "/me", "", http.StatusUnauthorized, "no token provided"},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized, "no token provided"},
		{"unknown token", "/me", "Bearer other", http.StatusUnauthorized, "invalid token"},
		{"valid", "/me", "Bearer customer-token", http.StatusOK, ""},
		{"lowercase scheme", "/me", "bearer customer-token", http.StatusOK, ""},
		{"customer on admin route", "/admin", "Bearer customer-token", http.StatusForbidden, "admin privileges required"},
		{"admin on admin route", "/admin", "Bearer admin-token", http.StatusNoContent, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := perform(r, tc.path, tc.header)
			assert.Equal(t, tc.status, w.Code)
			if tc.message != "" {
				assert.Equal(t, tc.message, errorMessage(t, w))
			}
		})
	}
}

func TestAuthenticateExpired(t *testing.T) {
	r := newRouter(stubAuth{err: apperr.Unauthenticated("token expired")})

	w := perform(r, "/me", "Bearer stale")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token expired", errorMessage(t, w))
}

func TestRequireRoleWithoutAuthenticate(t *testing.T) {
	r := gin.New()
	r.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := perform(r, "/ok", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, "fixed-id", entries[1].ContextMap()["request_id"])
	assert.EqualValues(t, http.StatusNotFound, entries[1].ContextMap()["status"])
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/panic", func(*gin.Context) { panic("kaboom") })

	w := perform(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "unexpected error", errorMessage(t, w))
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
