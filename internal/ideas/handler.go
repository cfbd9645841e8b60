package ideas

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/auth"
	"idea-analyzer/internal/inflight"
	"idea-analyzer/internal/scoring"
	"idea-analyzer/internal/shared/server/middleware"
	"idea-analyzer/internal/shared/server/respond"
	"idea-analyzer/internal/submission"
)

// MaxUploadBytes caps a single uploaded document or recording.
const MaxUploadBytes = 20 << 20

// Handler wires HTTP handlers to the ideas service.
type Handler struct {
	Svc *Service
	// SubmitMiddleware runs before the submit handler, typically a rate limit.
	SubmitMiddleware []gin.HandlerFunc
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, submitMiddleware ...gin.HandlerFunc) *Handler {
	return &Handler{Svc: svc, SubmitMiddleware: submitMiddleware}
}

// RegisterRoutes attaches idea routes to an authenticated router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	submit := append([]gin.HandlerFunc{middleware.RequireRole(auth.RoleEntrepreneur)}, h.SubmitMiddleware...)
	submit = append(submit, h.submit)
	rg.POST("/submissions", submit...)

	rg.GET("/ideas", h.list)
	rg.GET("/ideas/:id", h.get)
	rg.GET("/ideas/:id/report", h.report)
	rg.POST("/ideas/:id/annotations", middleware.RequireRole(auth.RoleMentor, auth.RoleAdmin), h.annotate)

	admin := rg.Group("/admin", middleware.RequireRole(auth.RoleAdmin))
	admin.GET("/analytics", h.analytics)
	admin.GET("/runs", h.runs)
}

type submitJSON struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (h *Handler) submit(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	title, candidate, err := readCandidate(c)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	idea, err := h.Svc.Submit(c.Request.Context(), user, title, candidate)
	if err != nil {
		var verr *submission.ValidationError
		var serr *SubmitError
		switch {
		case errors.As(err, &verr) && errors.Is(err, submission.ErrUnsupportedMediaType):
			respond.Error(c, http.StatusUnsupportedMediaType, verr.Code, FailureMessage(err), nil)
		case errors.As(err, &verr):
			respond.Error(c, http.StatusBadRequest, verr.Code, FailureMessage(err), nil)
		case errors.Is(err, inflight.ErrBusy):
			respond.Error(c, http.StatusConflict, ErrorCodeAnalysisBusy, "an analysis is already in progress", nil)
		case errors.As(err, &serr):
			respond.Error(c, http.StatusBadGateway, ErrorCodeAnalysisFailed, FailureMessage(err), gin.H{"reason": serr.Code()})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit idea", nil)
		}
		return
	}

	c.Set(middleware.IdeaIDKey, idea.ID)
	c.Set(middleware.InputKindKey, string(idea.InputKind))
	respond.Created(c, idea)
}

// readCandidate accepts multipart (title, text, document, audio) or JSON (title, text).
func readCandidate(c *gin.Context) (string, submission.Candidate, error) {
	contentType := c.ContentType()
	if contentType == "application/json" {
		var body submitJSON
		if err := c.ShouldBindJSON(&body); err != nil {
			return "", submission.Candidate{}, fmt.Errorf("invalid JSON body: %w", err)
		}
		return body.Title, submission.Candidate{Text: body.Text}, nil
	}
	if !strings.HasPrefix(contentType, "multipart/") && contentType != "application/x-www-form-urlencoded" {
		return "", submission.Candidate{}, nil
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*MaxUploadBytes)
	candidate := submission.Candidate{Text: c.PostForm("text")}
	var err error
	if candidate.Document, err = formFile(c, "document"); err != nil {
		return "", submission.Candidate{}, err
	}
	if candidate.Audio, err = formFile(c, "audio"); err != nil {
		return "", submission.Candidate{}, err
	}
	return c.PostForm("title"), candidate, nil
}

func formFile(c *gin.Context, field string) (*submission.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	if fh.Size > MaxUploadBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", field, MaxUploadBytes)
	}
	data, err := readPart(fh)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	return &submission.File{
		Name:     fh.Filename,
		MIMEType: fh.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
}

func (h *Handler) get(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)
	id := c.Param("id")
	c.Set(middleware.IdeaIDKey, id)

	idea, err := h.Svc.Get(c.Request.Context(), user, id)
	if err != nil {
		h.notFoundOr500(c, err, "failed to fetch idea")
		return
	}
	respond.OK(c, idea)
}

func (h *Handler) list(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	filter := Filter{Query: c.Query("q"), Limit: 50}
	if raw := c.Query("band"); raw != "" {
		band, ok := scoring.ParseBand(raw)
		if !ok {
			respond.Error(c, http.StatusBadRequest, "validation_error", "band must be green, yellow or red", nil)
			return
		}
		filter.Band = band
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			filter.Limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			filter.Offset = parsed
		}
	}

	list, err := h.Svc.List(c.Request.Context(), user, filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list ideas", nil)
		return
	}

	resp := make([]gin.H, 0, len(list))
	for _, idea := range list {
		item := gin.H{
			"id":          idea.ID,
			"ownerId":     idea.OwnerID,
			"title":       idea.Title,
			"inputKind":   idea.InputKind,
			"submittedAt": idea.SubmittedAt,
			"band":        idea.Band,
			"annotations": len(idea.Annotations),
		}
		if idea.Result != nil && idea.Result.OverallScore != nil {
			item["overallScore"] = *idea.Result.OverallScore
		}
		resp = append(resp, item)
	}
	respond.OK(c, resp)
}

func (h *Handler) report(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)
	id := c.Param("id")
	c.Set(middleware.IdeaIDKey, id)

	filename, data, err := h.Svc.ExportReport(c.Request.Context(), user, id)
	if err != nil {
		if errors.Is(err, ErrReportUnavailable) {
			respond.Error(c, http.StatusInternalServerError, ErrorCodeReportGeneration, "Could not generate the report. Please try again.", nil)
			return
		}
		h.notFoundOr500(c, err, "failed to export report")
		return
	}
	respond.Attachment(c, filename, pdfContentType, data)
}

type annotateRequest struct {
	Text string `json:"text"`
}

func (h *Handler) annotate(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)
	id := c.Param("id")
	c.Set(middleware.IdeaIDKey, id)

	var body annotateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}
	idea, err := h.Svc.Annotate(c.Request.Context(), user, id, body.Text)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyAnnotation):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "role_mismatch", "only mentors and administrators may annotate", nil)
		default:
			h.notFoundOr500(c, err, "failed to annotate idea")
		}
		return
	}
	respond.Created(c, idea)
}

func (h *Handler) analytics(c *gin.Context) {
	a, err := h.Svc.Analytics(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute analytics", nil)
		return
	}
	respond.OK(c, a)
}

func (h *Handler) runs(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	list, summary, err := h.Svc.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analysis runs", nil)
		return
	}
	respond.OK(c, gin.H{"runs": list, "summary": summary})
}

func (h *Handler) notFoundOr500(c *gin.Context, err error, msg string) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "idea not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", msg, nil)
}
