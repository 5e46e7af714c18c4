package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soraleth/wavedex/internal/repo/postgres"
)

// RequireAdmin re-reads the acting user's role from the store on every
// request; a role change takes effect immediately, nothing is cached.
// Must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := UserIDFromContext(c)

		if !ok || id == "" {
			abortUnauthorized(c, "Missing identity context")
			return
		}

		u, err := m.users.GetByID(c.Request.Context(), id)

		if err != nil {
			if errors.Is(err, postgres.ErrUserNotFound) {
				// session outlived the account
				abortUnauthorized(c, "Account no longer exists")
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    "internal_error",
					"message": "Could not verify permissions",
				},
			})
			return
		}

		if !u.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": "Admin role required",
				},
			})
			return
		}

		c.Next()
	}
}
