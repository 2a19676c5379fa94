package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"myCatalog/pkg/logger"
	"myCatalog/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	userID string
	err    error
}

func (s stubValidator) ValidateToken(ctx context.Context, token string) (string, error) {
	return s.userID, s.err
}

func whoAmI(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"user_id":   c.Get("user_id"),
		"user_name": c.Get("user_name"),
		"role":      c.Get("role"),
	})
}

func serve(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newToken(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := utils.GenerateJWT(userID, role, "Ada")
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	e.GET("/me", whoAmI, AuthMiddleware())

	t.Run("missing header", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Missing authorization header")
	})

	t.Run("bad format", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/me", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/me", newToken(t, "42", "customer"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user_id":42,"user_name":"Ada","role":"customer"}`, rec.Body.String())
	})

	t.Run("non numeric user id", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/me", newToken(t, "abc", "customer"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAuthMiddlewareWithRedis(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := newToken(t, "42", "customer")

	tests := []struct {
		name      string
		validator stubValidator
		want      int
	}{
		{"live session", stubValidator{userID: "42"}, http.StatusOK},
		{"revoked session", stubValidator{err: errors.New("token not found")}, http.StatusUnauthorized},
		{"session of another user", stubValidator{userID: "7"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/me", whoAmI, AuthMiddlewareWithRedis(tt.validator))
			assert.Equal(t, tt.want, serve(e, http.MethodGet, "/me", token).Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	e.GET("/reviews", whoAmI, OptionalAuth(nil))

	rec := serve(e, http.MethodGet, "/reviews", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":null,"user_name":null,"role":null}`, rec.Body.String())

	rec = serve(e, http.MethodGet, "/reviews", newToken(t, "42", "customer"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":42`)

	rec = serve(e, http.MethodGet, "/reviews", "broken")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	e.GET("/admin", whoAmI, AuthMiddleware(), AdminOnly())

	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodGet, "/admin", newToken(t, "1", "customer")).Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/admin", newToken(t, "1", "admin")).Code)
}

func TestSelfOrAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	e.GET("/users/:id", whoAmI, AuthMiddleware(), SelfOrAdmin())

	customer := newToken(t, "5", "customer")
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/users/5", customer).Code)
	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodGet, "/users/6", customer).Code)
	assert.Equal(t, http.StatusBadRequest, serve(e, http.MethodGet, "/users/x", customer).Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/users/6", newToken(t, "1", "admin")).Code)
}

func TestRequestTrace(t *testing.T) {
	e := echo.New()
	var seen string
	e.GET("/ping", func(c echo.Context) error {
		seen = logger.TraceIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	}, RequestTrace())

	rec := serve(e, http.MethodGet, "/ping", "")
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("kaput")
	})

	rec := serve(e, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"code":"NOT_FOUND","message":"Not Found"}`, rec.Body.String())

	rec = serve(e, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"code":"INTERNAL_SERVER_ERROR","message":"Internal Server Error"}`, rec.Body.String())
}
