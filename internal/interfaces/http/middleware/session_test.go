package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appidentity "github.com/filterdesk/backend/internal/application/identity"
	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/infrastructure/config"
	"github.com/filterdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	users map[string]*identity.User
	err   error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*appidentity.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[token]
	if !ok {
		return nil, appidentity.ErrSessionInvalid
	}
	return &appidentity.Principal{User: user}, nil
}

func testUser(role identity.Role) *identity.User {
	return &identity.User{
		BaseEntity: shared.BaseEntity{ID: uuid.New()},
		Name:       "Ana Lima",
		Email:      "ana@example.com",
		Role:       role,
		Approved:   true,
		Active:     true,
	}
}

func testCookie() SessionCookie {
	return NewSessionCookie(config.CookieConfig{Name: "fd_session", Path: "/", SameSite: "lax"})
}

func newSessionRouter(auth Authenticator) *gin.Engine {
	cookie := testCookie()
	router := gin.New()
	router.Use(RequestID(nil))
	api := router.Group("/api/v1", SessionAuth(auth, cookie, nil))
	api.GET("/me", func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, actor.UserID.String())
	})
	api.GET("/users", RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "users")
	})
	return router
}

func request(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "fd_session", Value: token})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestSessionAuth(t *testing.T) {
	admin := testUser(identity.RoleAdmin)
	rep := testUser(identity.RoleRepresentative)
	router := newSessionRouter(&stubAuthenticator{users: map[string]*identity.User{
		"admin-token": admin,
		"rep-token":   rep,
	}})

	t.Run("valid session", func(t *testing.T) {
		w := request(router, "/api/v1/me", "admin-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, admin.ID.String(), w.Body.String())
	})

	t.Run("missing cookie", func(t *testing.T) {
		w := request(router, "/api/v1/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, w))
	})

	t.Run("invalid session clears the cookie", func(t *testing.T) {
		w := request(router, "/api/v1/me", "forged")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "fd_session=;")
	})

	t.Run("representative cannot reach admin routes", func(t *testing.T) {
		w := request(router, "/api/v1/users", "rep-token")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, w))
	})

	t.Run("admin reaches admin routes", func(t *testing.T) {
		w := request(router, "/api/v1/users", "admin-token")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSessionAuth_DeactivatedUser(t *testing.T) {
	router := newSessionRouter(&stubAuthenticator{err: identity.ErrUserInactive})

	w := request(router, "/api/v1/me", "any")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ERR_USER_INACTIVE", errorCode(t, w))
}

func TestSessionAuth_InfrastructureError(t *testing.T) {
	router := newSessionRouter(&stubAuthenticator{err: errors.New("redis: connection refused")})

	w := request(router, "/api/v1/me", "any")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrCodeInternal, errorCode(t, w))
	assert.NotContains(t, w.Body.String(), "redis")
}

func TestSessionCookie_SetAndClear(t *testing.T) {
	cookie := NewSessionCookie(config.CookieConfig{Secure: true, SameSite: "strict"})
	assert.Equal(t, "fd_session", cookie.Name())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	cookie.Set(c, "signed-token", time.Now().Add(time.Hour))

	header := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(header, "fd_session=signed-token"))
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "Secure")
	assert.Contains(t, header, "SameSite=Strict")
	assert.Contains(t, header, "Path=/")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	cookie.Clear(c)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestRequireRole_WithoutSession(t *testing.T) {
	router := gin.New()
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
