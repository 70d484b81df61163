package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"social-analytics-dashboard/internal/config"
	"social-analytics-dashboard/internal/models"
)

// UserIDKey holds the authenticated subject; sessions and tracked jobs are
// owned by it.
const UserIDKey = "user_id"

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.SupabaseJWTSecret)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing authorization header", "")
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			unauthorized(c, "invalid authorization header format", "expected \"Bearer <token>\"")
			return
		}

		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			unauthorized(c, "empty token", "")
			return
		}

		// some clients URL-encode the token
		if decoded, err := url.QueryUnescape(tokenString); err == nil {
			tokenString = decoded
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if len(secret) == 0 {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			unauthorized(c, "invalid token", tokenErrorMessage(err))
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			unauthorized(c, "missing user id in token", "")
			return
		}

		c.Set(UserIDKey, sub)
		c.Next()
	}
}

// Owner returns the authenticated subject set by AuthMiddleware.
func Owner(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token has expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "token signature is invalid - check JWT secret"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "token is malformed"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "token must use HS256"
	}
	return err.Error()
}

func unauthorized(c *gin.Context, errText, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: errText, Message: message})
}
