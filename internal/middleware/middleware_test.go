package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ModawnAI/lotte-crm/internal/config"
	"github.com/ModawnAI/lotte-crm/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// =====================
// レスポンス確認用
// =====================

type mwErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type mwOKResponse struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// =====================
// helper
// =====================

func mustMakeJWT(t *testing.T, secret string, claims jwt.MapClaims, signingMethod jwt.SigningMethod) string {
	t.Helper()

	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token := jwt.NewWithClaims(signingMethod, claims)

	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func runRequest(t *testing.T, e *echo.Echo, method string, path string, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeMWError(t *testing.T, rec *httptest.ResponseRecorder) mwErrorResponse {
	t.Helper()
	var r mwErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&r))
	return r
}

func protectedEcho(cfg config.Config, mws ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		userID, _ := middleware.UserID(c)
		role, _ := c.Get(middleware.CtxUserRoleKey).(string)
		return c.JSON(http.StatusOK, mwOKResponse{UserID: userID, Role: role})
	}, append([]echo.MiddlewareFunc{middleware.AuthJWT(cfg)}, mws...)...)
	return e
}

// =====================
// AuthJWT
// =====================

func TestMiddleware_AuthJWT_Unauthorized(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"bad scheme", "Token abc.def.ghi"},
		{"empty token", "Bearer "},
		{"bad signature", "Bearer " + mustMakeJWT(t, "wrong-secret", jwt.MapClaims{"sub": "u1"}, jwt.SigningMethodHS256)},
		{"wrong alg", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": "u1"}, jwt.SigningMethodHS512)},
		{"expired", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Minute).Unix()}, jwt.SigningMethodHS256)},
		{"missing sub", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"role": "ADMIN"}, jwt.SigningMethodHS256)},
		{"role not string", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": "u1", "role": 1}, jwt.SigningMethodHS256)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := runRequest(t, protectedEcho(cfg), http.MethodGet, "/protected", tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decodeMWError(t, rec)
			assert.Equal(t, "unauthorized", body.Error)
			assert.False(t, body.Success)
		})
	}
}

// 正常：ctxに値が入る
func TestMiddleware_AuthJWT_Success_SetsContext(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	raw := mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{
		"sub":  "6f1c2a9e-0000-4000-8000-000000000001",
		"role": "admin",
	}, jwt.SigningMethodHS256)

	rec := runRequest(t, protectedEcho(cfg), http.MethodGet, "/protected", "Bearer "+raw)
	require.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "6f1c2a9e-0000-4000-8000-000000000001", body.UserID)
	assert.Equal(t, middleware.RoleAdmin, body.Role)
}

// roleなし・subが数値でも通る
func TestMiddleware_AuthJWT_DefaultsRoleAndNumericSub(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	raw := mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": 123}, jwt.SigningMethodHS256)

	rec := runRequest(t, protectedEcho(cfg), http.MethodGet, "/protected", "Bearer "+raw)
	require.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "123", body.UserID)
	assert.Equal(t, middleware.RoleUser, body.Role)
}

// =====================
// AdminRoleGuard
// =====================

func TestMiddleware_AdminRoleGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := protectedEcho(cfg, middleware.AdminRoleGuard())

	user := mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": "u1", "role": "USER"}, jwt.SigningMethodHS256)
	rec := runRequest(t, e, http.MethodGet, "/protected", "Bearer "+user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin only", decodeMWError(t, rec).Error)

	admin := mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": "u1", "role": "ADMIN"}, jwt.SigningMethodHS256)
	rec = runRequest(t, e, http.MethodGet, "/protected", "Bearer "+admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// AuthJWT無しでGuardだけ => 401
func TestMiddleware_AdminRoleGuard_MissingContext(t *testing.T) {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, middleware.AdminRoleGuard())

	rec := runRequest(t, e, http.MethodGet, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// =====================
// RequestLogger
// =====================

func TestMiddleware_RequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	e := echo.New()
	e.Use(middleware.RequestLogger(log))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})

	runRequest(t, e, http.MethodGet, "/ok", "")
	runRequest(t, e, http.MethodGet, "/boom", "")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
	assert.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])

	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.EqualValues(t, http.StatusInternalServerError, entries[1].ContextMap()["status"])
}

func TestMiddleware_RequireRole_AllowsListedRoles(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := protectedEcho(cfg, middleware.RequireRole("MANAGER", middleware.RoleAdmin))

	manager := mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": "u1", "role": "manager"}, jwt.SigningMethodHS256)
	rec := runRequest(t, e, http.MethodGet, "/protected", "Bearer "+manager)
	assert.Equal(t, http.StatusOK, rec.Code)

	user := mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": "u2"}, jwt.SigningMethodHS256)
	rec = runRequest(t, e, http.MethodGet, "/protected", "Bearer "+user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeMWError(t, rec).Error)
}
