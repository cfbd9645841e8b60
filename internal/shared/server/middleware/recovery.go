package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/shared/metrics"
	"idea-analyzer/internal/shared/server/respond"
	"idea-analyzer/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 error envelope. A panic after the
// response was committed (for example mid report download) only gets logged.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			metrics.IncPanic()
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"path":       c.FullPath(),
				"method":     c.Request.Method,
			}
			if user, ok := UserFromContext(c); ok {
				fields["user_id"] = user.ID
			}
			telemetry.Error("http.panic", fields)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
