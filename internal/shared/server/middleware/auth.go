package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/auth"
	"idea-analyzer/internal/shared/server/respond"
)

const (
	userKey     = "user"
	userIDKey   = "userId"
	userRoleKey = "userRole"
)

// Auth resolves the bearer token through svc and stores the user in context.
func Auth(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		user, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(userKey, user)
		c.Set(userIDKey, user.ID)
		c.Set(userRoleKey, string(user.Role))
		c.Next()
	}
}

// RequireRole rejects users whose role is not listed.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	allowed := make(map[auth.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		user, ok := UserFromContext(c)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			respond.Error(c, http.StatusForbidden, "role_mismatch", "your role does not allow this action", gin.H{
				"role": string(user.Role),
			})
			return
		}
		c.Next()
	}
}

// UserFromContext fetches the user set by the auth middleware.
func UserFromContext(c *gin.Context) (auth.User, bool) {
	if c == nil {
		return auth.User{}, false
	}
	val, ok := c.Get(userKey)
	if !ok {
		return auth.User{}, false
	}
	user, ok := val.(auth.User)
	return user, ok
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
