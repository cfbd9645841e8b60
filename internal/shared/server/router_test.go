package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/analyzer"
	"idea-analyzer/internal/auth"
	"idea-analyzer/internal/ideas"
	"idea-analyzer/internal/inflight"
	"idea-analyzer/internal/runs"
	"idea-analyzer/internal/shared/config"
	"idea-analyzer/internal/shared/server/middleware"
)

func newTestRouter(perMinute int) *gin.Engine {
	svc := &ideas.Service{
		Repo:     ideas.NewMemoryRepo(),
		Analyzer: &analyzer.Stub{Payload: analyzer.RawResponse(`{"success":true,"analysis":{"trafficLightScore":"GREEN"}}`)},
		Guard:    inflight.NewMemoryGuard(),
		Runs:     runs.NewMemoryRepo(),
	}
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := NewRouter(RouterDeps{
		Config:      config.Config{CORSAllowOrigin: []string{"http://localhost:3000"}, SubmitPerMinute: perMinute},
		Auth:        auth.NewStubService(nil),
		IdeaHandler: ideas.NewHandler(svc),
		Limiter:     middleware.NewRateLimiter(func() time.Time { return now }),
	})
	gin.SetMode(gin.TestMode)
	return r
}

func TestHealthIsPublic(t *testing.T) {
	r := newTestRouter(6)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(6)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "analysis_started_total") {
		t.Fatalf("unexpected metrics response %d: %s", resp.Code, resp.Body.String())
	}
}

func TestMeRequiresToken(t *testing.T) {
	r := newTestRouter(6)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer demo-mentor")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"role":"mentor"`) {
		t.Fatalf("unexpected /me response %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"reviewIdeas":true`) || !strings.Contains(resp.Body.String(), `"submitIdeas":false`) {
		t.Fatalf("unexpected permissions: %s", resp.Body.String())
	}
}

func TestSubmissionsAreRateLimited(t *testing.T) {
	r := newTestRouter(2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", bytes.NewBufferString(`{"text":"a shared kitchen"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer demo-entrepreneur")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusCreated {
		t.Fatalf("expected first two submissions to succeed, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third submission to be rate limited, got %v", codes)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
