package stubanalysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/analysis"
	"idea-analyzer/internal/extract"
	"idea-analyzer/internal/shared/server/middleware"
	"idea-analyzer/internal/shared/telemetry"
)

const (
	maxUploadBytes  = 20 << 20
	excerptMaxRunes = 1000
)

// Server answers the analysis service API with rule-based results.
type Server struct {
	Now func() time.Time
}

type textRequest struct {
	Text string `json:"text"`
}

type response struct {
	Success       bool            `json:"success"`
	Filename      string          `json:"filename,omitempty"`
	Analysis      json.RawMessage `json:"analysis"`
	Metadata      metadata        `json:"metadata"`
	ExtractedText string          `json:"extracted_text,omitempty"`
}

type metadata struct {
	TextLength  int    `json:"text_length"`
	Engine      string `json:"engine"`
	ProcessedAt string `json:"processed_at"`
}

// NewEngine builds the stub service router.
func NewEngine(s *Server, allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(allowedOrigins),
	)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.POST("/api/analyze-text", s.analyzeText)
	r.POST("/api/analyze-pdf", s.analyzePDF)
	return r
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) analyzeText(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		detail(c, http.StatusBadRequest, "Text input is required")
		return
	}
	s.respond(c, "", req.Text, false)
}

func (s *Server) analyzePDF(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		detail(c, http.StatusBadRequest, "A PDF file is required")
		return
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		detail(c, http.StatusBadRequest, "Only PDF files are supported")
		return
	}
	f, err := fh.Open()
	if err != nil {
		detail(c, http.StatusInternalServerError, "Error processing PDF: "+err.Error())
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		detail(c, http.StatusInternalServerError, "Error processing PDF: "+err.Error())
		return
	}

	text, err := extract.TextFromBytes(c.Request.Context(), data, fh.Header.Get("Content-Type"), fh.Filename)
	switch {
	case errors.Is(err, extract.ErrNoText):
		detail(c, http.StatusBadRequest, "No text could be extracted from the PDF")
		return
	case err != nil:
		telemetry.Error("stub.extract_failed", map[string]any{"file": fh.Filename, "error": err.Error()})
		detail(c, http.StatusInternalServerError, "Error processing PDF: "+err.Error())
		return
	}
	s.respond(c, fh.Filename, text, true)
}

func (s *Server) respond(c *gin.Context, filename, text string, withExcerpt bool) {
	result := Analyze(text)
	payload, err := analysisPayload(result)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Error analyzing text: "+err.Error())
		return
	}
	resp := response{
		Success:  true,
		Filename: filename,
		Analysis: payload,
		Metadata: metadata{
			TextLength:  len(text),
			Engine:      "rules",
			ProcessedAt: s.now().UTC().Format(time.RFC3339),
		},
	}
	if withExcerpt {
		resp.ExtractedText = excerpt(text)
	}
	telemetry.Info("stub.analyzed", map[string]any{
		"file":          filename,
		"text_length":   len(text),
		"overall_score": *result.OverallScore,
		"band":          string(result.TrafficLightBand),
	})
	c.JSON(http.StatusOK, resp)
}

// analysisPayload renders the result in the service's raw shape and unwraps
// the inner analysis object.
func analysisPayload(result analysis.AnalysisResult) (json.RawMessage, error) {
	raw, err := result.Raw()
	if err != nil {
		return nil, err
	}
	var env struct {
		Analysis json.RawMessage `json:"analysis"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unwrap analysis: %w", err)
	}
	return env.Analysis, nil
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptMaxRunes {
		return text
	}
	return string(runes[:excerptMaxRunes]) + "..."
}

// detail writes the analysis service's {"detail": "..."} error body.
func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}
