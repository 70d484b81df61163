package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"social-analytics-dashboard/internal/config"
	"social-analytics-dashboard/internal/middleware"
)

const testSecret = "test-secret-key-for-jwt-signing-must-be-long-enough"

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.AuthMiddleware(&config.Config{SupabaseJWTSecret: testSecret}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"owner": middleware.Owner(c)})
	})
	return router
}

func sign(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func serve(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	router := newRouter(t)
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", "missing authorization header"},
		{"wrong scheme", "Basic abc", "invalid authorization header format"},
		{"garbage token", "Bearer invalid-token", "invalid token"},
		{"wrong secret", "Bearer " + sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u"}, "other"), "invalid token"},
		{"wrong algorithm", "Bearer " + sign(t, jwt.SigningMethodHS512, jwt.MapClaims{"sub": "u"}, testSecret), "invalid token"},
		{"expired", "Bearer " + sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()}, testSecret), "invalid token"},
		{"no subject", "Bearer " + sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"role": "x"}, testSecret), "missing user id in token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.header)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"`+tt.want+`"`)
		})
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := newRouter(t)
	token := sign(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	w := serve(router, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"owner":"user-123"}`, w.Body.String())
}

func TestAuthMiddleware_ExpiredMessage(t *testing.T) {
	router := newRouter(t)
	token := sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()}, testSecret)

	w := serve(router, "Bearer "+token)

	assert.Contains(t, w.Body.String(), "token has expired")
}
