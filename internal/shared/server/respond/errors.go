package respond

import (
	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/shared/telemetry"
)

// ErrorBody is the error object every failed API call returns.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// context keys set by the request id, auth and logging middleware
var contextFields = map[string]string{
	"requestId": "request_id",
	"userId":    "user_id",
	"userRole":  "role",
	"ideaId":    "idea_id",
	"inputKind": "input_kind",
}

// Error aborts the request with the standard envelope. Client errors log at
// warn level and server errors at error level.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":  status,
		"code":    code,
		"message": message,
		"path":    c.Request.URL.Path,
		"method":  c.Request.Method,
	}
	for key, field := range contextFields {
		if v := c.GetString(key); v != "" {
			fields[field] = v
		}
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message, Details: details},
	})
}
