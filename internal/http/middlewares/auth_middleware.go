package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ferrante/taskhub/internal/auth"
	"github.com/ferrante/taskhub/internal/config"
	"github.com/ferrante/taskhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep these interfaces small so tests can fake them easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthMiddleware struct {
	jwt   TokenVerifier
	users UserGetter
}

func NewAuthMiddleware(jwt TokenVerifier, users UserGetter) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": message,
		"code":    code,
	})
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			abortUnauthorized(c, "NO_TOKEN", "Authorization token required")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "INVALID_TOKEN_FORMAT", "Authorization header must be of the form Bearer <token>")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))

		if raw == "" {
			abortUnauthorized(c, "INVALID_TOKEN_FORMAT", "Authorization header must be of the form Bearer <token>")
			return
		}

		claims, err := m.jwt.Verify(raw)

		if err != nil {
			if errors.Is(err, auth.ErrExpired) {
				abortUnauthorized(c, "TOKEN_EXPIRED", "Token has expired")
				return
			}

			abortUnauthorized(c, "INVALID_TOKEN", "Invalid token")
			return
		}

		// Re-fetch the user so a token for a deleted account stops working
		// the moment the account is gone.
		cctx, cancel := config.WithTimeout(2 * time.Second)
		defer cancel()

		u, err := m.users.GetByID(cctx, claims.UserID)

		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				abortUnauthorized(c, "INVALID_TOKEN", "Invalid token")
				return
			}

			// a store outage is not the caller's fault
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message": "Server error",
			})
			return
		}

		SetCurrentUser(c, u)

		c.Next()
	}
}

// SetCurrentUser attaches the resolved identity to the request context.
// Handler tests use it in place of the full middleware.

func SetCurrentUser(c *gin.Context, u user.User) {
	c.Set(ctxUserKey, u)
}

// CurrentUser returns the live identity the middleware attached.

func CurrentUser(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	u, ok := CurrentUser(c)
	if !ok {
		return "", false
	}
	return u.ID, true
}
