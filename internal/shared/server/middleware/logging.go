package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/shared/telemetry"
)

// Context keys handlers set so the request log can correlate entities.
const (
	IdeaIDKey    = "ideaId"
	InputKindKey = "inputKind"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		userID, _ := c.Get(userIDKey)
		role, _ := c.Get(userRoleKey)
		ideaID, _ := c.Get(IdeaIDKey)
		inputKind, _ := c.Get(InputKindKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     userID,
			"role":        role,
			"idea_id":     ideaID,
			"input_kind":  inputKind,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
