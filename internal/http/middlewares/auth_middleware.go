package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soraleth/wavedex/internal/domain/user"
	"github.com/soraleth/wavedex/internal/session"
)

// Keep these interfaces small so tests can fake them easily.

type SessionResolver interface {
	Resolve(ctx context.Context, raw string) (string, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthMiddleware struct {
	sessions SessionResolver
	users    UserGetter
}

func NewAuthMiddleware(sessions SessionResolver, users UserGetter) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, users: users}
}

// RequireAuth resolves the session cookie into a user id on the gin context.
// An absent, unknown, or expired cookie is plain 401; only a store failure
// surfaces as 500.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(session.CookieName)

		if err != nil || raw == "" {
			abortUnauthorized(c, "Not authenticated. Please log in.")
			return
		}

		userID, err := m.sessions.Resolve(c.Request.Context(), raw)

		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				abortUnauthorized(c, "Session expired or invalid. Please log in again.")
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    "internal_error",
					"message": "Could not verify session",
				},
			})
			return
		}

		c.Set(CtxUserID, userID)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": message,
		},
	})
}

// UserIDFromContext saves handlers from knowing the magic key.
func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
