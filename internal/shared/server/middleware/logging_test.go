package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/auth"
	"idea-analyzer/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Auth(auth.NewStubService(nil)), Logging())
	router.GET("/api/v1/ideas/:id", func(c *gin.Context) {
		c.Set(IdeaIDKey, c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ideas/idea-1", nil)
	req.Header.Set("Authorization", "Bearer demo-entrepreneur")
	req.Header.Set("X-Request-Id", "req-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"request_id", "user_id", "role", "idea_id", "duration_ms", "status", "route"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["request_id"] != "req-1" {
		t.Fatalf("unexpected request_id: %v", payload["request_id"])
	}
	if payload["user_id"] != "user-entrepreneur" {
		t.Fatalf("unexpected user_id: %v", payload["user_id"])
	}
	if payload["idea_id"] != "idea-1" {
		t.Fatalf("unexpected idea_id: %v", payload["idea_id"])
	}
	if payload["route"] != "/api/v1/ideas/:id" {
		t.Fatalf("unexpected route: %v", payload["route"])
	}
}
