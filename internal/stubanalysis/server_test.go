package stubanalysis

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"

	"idea-analyzer/internal/analysis"
)

func newTestEngine() *gin.Engine {
	s := &Server{Now: func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }}
	r := NewEngine(s, []string{"http://localhost:3000"})
	gin.SetMode(gin.TestMode)
	return r
}

func pdfUpload(t *testing.T, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write(data)
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func samplePDF(t *testing.T, text string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Text(20, 30, text)
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestEngine().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestAnalyzeTextEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-text", bytes.NewBufferString(`{"text":"A meal kitchen for the local community"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	newTestEngine().ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Success  bool            `json:"success"`
		Analysis json.RawMessage `json:"analysis"`
		Metadata metadata        `json:"metadata"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Metadata.ProcessedAt != "2026-03-01T09:00:00Z" {
		t.Fatalf("unexpected envelope %+v", body)
	}
	got := analysis.Normalize(resp.Body.Bytes())
	if got.OverallScore == nil {
		t.Fatalf("expected a score in %s", resp.Body.String())
	}
	if got.BusinessCanvas.KeyActivities.Details == "" {
		t.Fatalf("expected canvas content")
	}
}

func TestAnalyzeTextRejectsBlank(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-text", bytes.NewBufferString(`{"text":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	newTestEngine().ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestAnalyzePDFEndpoint(t *testing.T) {
	body, ct := pdfUpload(t, "plan.pdf", samplePDF(t, "Organic farm cooperative selling crops"))
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-pdf", body)
	req.Header.Set("Content-Type", ct)
	resp := httptest.NewRecorder()
	newTestEngine().ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var env response
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Filename != "plan.pdf" || env.ExtractedText == "" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestAnalyzePDFRejectsOtherExtensions(t *testing.T) {
	body, ct := pdfUpload(t, "plan.docx", []byte("PK"))
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-pdf", body)
	req.Header.Set("Content-Type", ct)
	resp := httptest.NewRecorder()
	newTestEngine().ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestExcerptTruncatesByRune(t *testing.T) {
	long := bytes.Repeat([]byte("é"), excerptMaxRunes+5)
	got := excerpt(string(long))
	if []rune(got)[excerptMaxRunes] != '.' || len([]rune(got)) != excerptMaxRunes+3 {
		t.Fatalf("unexpected excerpt length %d", len([]rune(got)))
	}
}
