package ideas

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/auth"
	"idea-analyzer/internal/shared/server/middleware"
	"idea-analyzer/internal/shared/server/respond"
)

func newTestRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1", middleware.Auth(auth.NewStubService(nil)))
	NewHandler(f.svc).RegisterRoutes(api)
	return r
}

func do(r *gin.Engine, method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) respond.ErrorBody {
	t.Helper()
	var payload respond.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, resp.Body.String())
	}
	return payload.Error
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName, fileType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+fileName+`"`)
		h.Set("Content-Type", fileType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write(data)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestSubmitJSONReturnsCreatedIdea(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)

	resp := do(r, http.MethodPost, "/api/v1/submissions", "demo-entrepreneur",
		bytes.NewBufferString(`{"title":"Lunch Club","text":"Office lunch delivery"}`), "application/json")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var idea SubmittedIdea
	if err := json.Unmarshal(resp.Body.Bytes(), &idea); err != nil {
		t.Fatalf("decode idea: %v", err)
	}
	if idea.Title != "Lunch Club" || idea.OwnerID != "user-entrepreneur" || idea.Result == nil {
		t.Fatalf("unexpected idea %+v", idea)
	}
}

func TestSubmitMultipartDocument(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)

	body, ct := multipartBody(t, map[string]string{"text": "also typed"}, "document", "plan.pdf", "application/pdf", []byte("%PDF-1.4 body"))
	resp := do(r, http.MethodPost, "/api/v1/submissions", "demo-entrepreneur", body, ct)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if f.stub.Last.File.Name != "plan.pdf" || string(f.stub.Last.File.Data) != "%PDF-1.4 body" {
		t.Fatalf("analyzer got %+v", f.stub.Last)
	}
}

func TestSubmitErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		setup      func(f *fixture)
		body       func(t *testing.T) (*bytes.Buffer, string)
		token      string
		wantStatus int
		wantCode   string
		wantPrefix bool
	}{
		{
			name: "empty input",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return bytes.NewBufferString(`{"text":"   "}`), "application/json"
			},
			token:      "demo-entrepreneur",
			wantStatus: http.StatusBadRequest,
			wantCode:   "empty_input",
			wantPrefix: true,
		},
		{
			name: "unsupported document",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, nil, "document", "plan.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("PK"))
			},
			token:      "demo-entrepreneur",
			wantStatus: http.StatusUnsupportedMediaType,
			wantCode:   "unsupported_media_type",
			wantPrefix: true,
		},
		{
			name:  "analysis failure",
			setup: func(f *fixture) { f.stub.Err = errors.New("connection refused") },
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return bytes.NewBufferString(`{"text":"idea"}`), "application/json"
			},
			token:      "demo-entrepreneur",
			wantStatus: http.StatusBadGateway,
			wantCode:   "analysis_failed",
			wantPrefix: true,
		},
		{
			name: "mentor cannot submit",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return bytes.NewBufferString(`{"text":"idea"}`), "application/json"
			},
			token:      "demo-mentor",
			wantStatus: http.StatusForbidden,
			wantCode:   "role_mismatch",
		},
		{
			name: "no token",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return bytes.NewBufferString(`{"text":"idea"}`), "application/json"
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthorized",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			if tc.setup != nil {
				tc.setup(f)
			}
			r := newTestRouter(f)
			body, ct := tc.body(t)
			resp := do(r, http.MethodPost, "/api/v1/submissions", tc.token, body, ct)
			if resp.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, resp.Code, resp.Body.String())
			}
			got := decodeError(t, resp)
			if got.Code != tc.wantCode {
				t.Fatalf("expected code %q, got %q", tc.wantCode, got.Code)
			}
			if tc.wantPrefix && !strings.HasPrefix(got.Message, "Analysis failed: ") {
				t.Fatalf("message %q lacks the failure prefix", got.Message)
			}
		})
	}
}

func TestSubmitFailureMessageIsUserFacing(t *testing.T) {
	f := newFixture()
	f.stub.Err = errors.New("connection refused")
	r := newTestRouter(f)
	resp := do(r, http.MethodPost, "/api/v1/submissions", "demo-entrepreneur", bytes.NewBufferString(`{"text":"idea"}`), "application/json")
	if got := decodeError(t, resp).Message; got != "Analysis failed: connection refused" {
		t.Fatalf("message = %q", got)
	}
}

func TestIdeaRoutes(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)

	resp := do(r, http.MethodPost, "/api/v1/submissions", "demo-entrepreneur", bytes.NewBufferString(`{"title":"Lunch Club","text":"lunch"}`), "application/json")
	var idea SubmittedIdea
	_ = json.Unmarshal(resp.Body.Bytes(), &idea)

	if resp := do(r, http.MethodGet, "/api/v1/ideas/"+idea.ID, "demo-entrepreneur", nil, ""); resp.Code != http.StatusOK {
		t.Fatalf("get own idea: %d", resp.Code)
	}
	if resp := do(r, http.MethodGet, "/api/v1/ideas/missing", "demo-entrepreneur", nil, ""); resp.Code != http.StatusNotFound {
		t.Fatalf("get missing idea: %d", resp.Code)
	}

	resp = do(r, http.MethodGet, "/api/v1/ideas?band=green", "demo-mentor", nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("list: %d", resp.Code)
	}
	var list []map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &list)
	if len(list) != 1 || list[0]["overallScore"] != float64(78) {
		t.Fatalf("unexpected list %v", list)
	}
	if resp := do(r, http.MethodGet, "/api/v1/ideas?band=blue", "demo-mentor", nil, ""); resp.Code != http.StatusBadRequest {
		t.Fatalf("bad band: %d", resp.Code)
	}

	resp = do(r, http.MethodGet, "/api/v1/ideas/"+idea.ID+"/report", "demo-entrepreneur", nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("report: %d %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="Lunch Club.pdf"`) {
		t.Fatalf("content disposition = %q", cd)
	}

	if resp := do(r, http.MethodPost, "/api/v1/ideas/"+idea.ID+"/annotations", "demo-entrepreneur", bytes.NewBufferString(`{"text":"hi"}`), "application/json"); resp.Code != http.StatusForbidden {
		t.Fatalf("entrepreneur annotate: %d", resp.Code)
	}
	resp = do(r, http.MethodPost, "/api/v1/ideas/"+idea.ID+"/annotations", "demo-mentor", bytes.NewBufferString(`{"text":"Talk to caterers"}`), "application/json")
	if resp.Code != http.StatusCreated {
		t.Fatalf("mentor annotate: %d %s", resp.Code, resp.Body.String())
	}
	if resp := do(r, http.MethodPost, "/api/v1/ideas/"+idea.ID+"/annotations", "demo-mentor", bytes.NewBufferString(`{"text":""}`), "application/json"); resp.Code != http.StatusBadRequest {
		t.Fatalf("empty annotation: %d", resp.Code)
	}
}

func TestReportFailureReturns500(t *testing.T) {
	f := newFixture()
	f.renderer.err = errors.New("boom")
	r := newTestRouter(f)
	resp := do(r, http.MethodPost, "/api/v1/submissions", "demo-entrepreneur", bytes.NewBufferString(`{"text":"lunch"}`), "application/json")
	var idea SubmittedIdea
	_ = json.Unmarshal(resp.Body.Bytes(), &idea)

	resp = do(r, http.MethodGet, "/api/v1/ideas/"+idea.ID+"/report", "demo-entrepreneur", nil, "")
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if got := decodeError(t, resp).Code; got != ErrorCodeReportGeneration {
		t.Fatalf("code = %q", got)
	}
}

func TestAdminRoutes(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)
	_ = do(r, http.MethodPost, "/api/v1/submissions", "demo-entrepreneur", bytes.NewBufferString(`{"text":"lunch"}`), "application/json")

	if resp := do(r, http.MethodGet, "/api/v1/admin/analytics", "demo-mentor", nil, ""); resp.Code != http.StatusForbidden {
		t.Fatalf("mentor analytics: %d", resp.Code)
	}
	resp := do(r, http.MethodGet, "/api/v1/admin/analytics", "demo-admin", nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("analytics: %d", resp.Code)
	}
	var a Analytics
	if err := json.Unmarshal(resp.Body.Bytes(), &a); err != nil || a.Total != 1 {
		t.Fatalf("unexpected analytics %+v %v", a, err)
	}

	resp = do(r, http.MethodGet, "/api/v1/admin/runs?limit=5", "demo-admin", nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("runs: %d", resp.Code)
	}
	var payload struct {
		Runs    []map[string]any `json:"runs"`
		Summary map[string]any   `json:"summary"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil || len(payload.Runs) != 1 {
		t.Fatalf("unexpected runs payload %s", resp.Body.String())
	}
}
