package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"idea-analyzer/internal/analyzer"
	"idea-analyzer/internal/shared/telemetry"
	"idea-analyzer/internal/submission"
)

const (
	pdfPath  = "/api/analyze-pdf"
	textPath = "/api/analyze-text"

	DefaultTimeout          = 60 * time.Second
	DefaultMaxResponseBytes = 5 << 20
)

// Options configures the analysis service client.
type Options struct {
	BaseURL          string
	Timeout          time.Duration
	MaxResponseBytes int64
	HTTPClient       *http.Client
}

// Client implements analyzer.Analyzer over the analysis service HTTP API.
type Client struct {
	baseURL    string
	maxBytes   int64
	httpClient *http.Client
}

// New constructs a Client. BaseURL is required.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("ANALYSIS_BASE_URL is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBytes := opts.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResponseBytes
	}
	hc := &http.Client{Timeout: timeout}
	if opts.HTTPClient != nil {
		clone := *opts.HTTPClient
		if clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		hc = &clone
	}
	return &Client{baseURL: base, maxBytes: maxBytes, httpClient: hc}, nil
}

// Analyze dispatches by input kind. Documents go to the PDF endpoint as a
// multipart upload; audio is replaced by placeholder text and sent with text.
func (c *Client) Analyze(ctx context.Context, input submission.Input) (analyzer.RawResponse, error) {
	switch input.Kind {
	case submission.KindDocument:
		return c.analyzePDF(ctx, input.File)
	case submission.KindAudio:
		return c.analyzeText(ctx, AudioPlaceholderText(input.File.Name))
	case submission.KindText:
		return c.analyzeText(ctx, input.Text)
	default:
		return nil, fmt.Errorf("analyze: unknown input kind %q", input.Kind)
	}
}

type textRequest struct {
	Text string `json:"text"`
}

func (c *Client) analyzeText(ctx context.Context, text string) (analyzer.RawResponse, error) {
	payload, err := json.Marshal(textRequest{Text: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+textPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, "analyze-text")
}

func (c *Client) analyzePDF(ctx context.Context, file submission.File) (analyzer.RawResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	header.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pdfPath, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return c.do(req, "analyze-pdf")
}

func (c *Client) do(req *http.Request, op string) (analyzer.RawResponse, error) {
	if id := telemetry.RequestID(req.Context()); id != "" {
		req.Header.Set("X-Request-Id", id)
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	telemetry.Info("analysis.call", map[string]any{
		"op":          op,
		"request_id":  telemetry.RequestID(req.Context()),
		"status":      resp.StatusCode,
		"bytes":       len(body),
		"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Status: statusText(resp)}
	}
	if int64(len(body)) > c.maxBytes {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("response exceeds %d bytes", c.maxBytes)}
	}
	if !json.Valid(body) {
		return nil, &TransportError{Op: op, Err: errors.New("response body is not valid JSON")}
	}
	return analyzer.RawResponse(body), nil
}

// statusText prefers the server's reason phrase and falls back to the standard text.
func statusText(resp *http.Response) string {
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && strings.TrimSpace(reason) != "" {
		return strings.TrimSpace(reason)
	}
	return http.StatusText(resp.StatusCode)
}

var _ analyzer.Analyzer = (*Client)(nil)
