package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"idea-analyzer/internal/shared/telemetry"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		inbound string
		reuse   bool
	}{
		{name: "generated", inbound: "", reuse: false},
		{name: "reused", inbound: "edge-7f3a.1", reuse: true},
		{name: "rejects spaces", inbound: "bad id", reuse: false},
		{name: "rejects long", inbound: strings.Repeat("a", maxRequestIDLen+1), reuse: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromCtx, fromGin string
			router := gin.New()
			router.Use(RequestID())
			router.GET("/", func(c *gin.Context) {
				fromGin = RequestIDFromContext(c)
				fromCtx = telemetry.RequestID(c.Request.Context())
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.inbound != "" {
				req.Header.Set("X-Request-Id", tt.inbound)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			got := w.Header().Get("X-Request-Id")
			if got != fromGin || got != fromCtx {
				t.Fatalf("header %q, gin %q, context %q disagree", got, fromGin, fromCtx)
			}
			if tt.reuse {
				if got != tt.inbound {
					t.Fatalf("expected inbound id %q, got %q", tt.inbound, got)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected a generated uuid, got %q", got)
			}
		})
	}
}
