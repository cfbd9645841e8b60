package ideas

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"idea-analyzer/internal/analysis"
	"idea-analyzer/internal/analyzer"
	"idea-analyzer/internal/auth"
	"idea-analyzer/internal/inflight"
	"idea-analyzer/internal/runs"
	"idea-analyzer/internal/shared/metrics"
	"idea-analyzer/internal/shared/storage/object"
	"idea-analyzer/internal/shared/telemetry"
	"idea-analyzer/internal/submission"
)

const (
	DefaultReportCacheTTL = 10 * time.Minute
	pdfContentType        = "application/pdf"
)

// ReportRenderer produces the downloadable PDF for an idea.
type ReportRenderer interface {
	Render(idea SubmittedIdea) ([]byte, error)
	Filename(idea SubmittedIdea) string
}

// Service contains business logic for submitted ideas.
type Service struct {
	Repo     Repo
	Analyzer analyzer.Analyzer
	Guard    inflight.Guard
	Runs     runs.Repo
	Renderer ReportRenderer
	// Store archives uploads and rendered reports when set.
	Store object.Store
	// Reports caches rendered PDFs by idea ID when set.
	Reports *cache.Cache
	Now     func() time.Time

	// fallbackGuard serializes submissions when Guard is nil.
	fallbackOnce  sync.Once
	fallbackGuard inflight.Guard
}

// NewReportCache returns a cache for rendered reports.
func NewReportCache(ttl time.Duration) *cache.Cache {
	if ttl <= 0 {
		ttl = DefaultReportCacheTTL
	}
	return cache.New(ttl, 2*ttl)
}

func (s *Service) guard() inflight.Guard {
	if s.Guard != nil {
		return s.Guard
	}
	s.fallbackOnce.Do(func() { s.fallbackGuard = inflight.NewMemoryGuard() })
	return s.fallbackGuard
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Submit validates the candidate, runs one analysis and stores the result.
// At most one submission per user is in flight at a time.
func (s *Service) Submit(ctx context.Context, user auth.User, title string, candidate submission.Candidate) (SubmittedIdea, error) {
	if user.ID == "" {
		return SubmittedIdea{}, errors.New("user is required")
	}
	input, err := submission.Validate(candidate)
	if err != nil {
		return SubmittedIdea{}, err
	}

	release, err := s.guard().Acquire(ctx, user.ID)
	if err != nil {
		if errors.Is(err, inflight.ErrBusy) {
			metrics.IncAnalysisBusy()
		}
		return SubmittedIdea{}, err
	}
	defer release()

	startedAt := s.now()
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.status", map[string]any{
		"status":     "started",
		"user_id":    user.ID,
		"input_kind": string(input.Kind),
		"input_name": input.Name(),
		"input_size": input.Size(),
	})

	raw, err := s.Analyzer.Analyze(ctx, input)
	durationMs := time.Since(startedAt).Milliseconds()
	metrics.ObserveAnalysisDurationMs(float64(durationMs))
	if err != nil {
		submitErr := &SubmitError{Cause: err}
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.status", map[string]any{
			"status":      "failed",
			"user_id":     user.ID,
			"input_kind":  string(input.Kind),
			"error_code":  submitErr.Code(),
			"error":       err.Error(),
			"duration_ms": durationMs,
		})
		s.recordRun(ctx, runs.Run{
			UserID:     user.ID,
			InputKind:  input.Kind,
			Status:     runs.StatusFailed,
			ErrorCode:  submitErr.Code(),
			DurationMs: durationMs,
			CreatedAt:  startedAt,
		})
		return SubmittedIdea{}, submitErr
	}

	result, prov := analysis.NormalizeTraced(raw)
	defaulted := prov.Defaulted()
	if len(defaulted) > 0 {
		fields := prov.Fields()
		fields["user_id"] = user.ID
		fields["defaulted"] = defaulted
		fields["degraded"] = prov.Degraded()
		telemetry.Info("analysis.normalize.defaults", fields)
		metrics.IncDefaulted(defaulted)
	}

	idea := SubmittedIdea{
		ID:          uuid.NewString(),
		OwnerID:     user.ID,
		Title:       DeriveTitle(title, input),
		Description: describe(input),
		InputKind:   input.Kind,
		SubmittedAt: startedAt,
		Band:        BandFor(&result),
		Result:      &result,
		Annotations: []Annotation{},
	}
	if err := s.Repo.Create(ctx, idea); err != nil {
		return SubmittedIdea{}, fmt.Errorf("store idea: %w", err)
	}
	s.archiveUpload(ctx, idea, input)

	metrics.IncAnalysisCompleted(string(idea.Band))
	telemetry.Info("analysis.status", map[string]any{
		"status":      "completed",
		"user_id":     user.ID,
		"idea_id":     idea.ID,
		"band":        string(idea.Band),
		"has_score":   result.HasScore(),
		"duration_ms": durationMs,
	})
	s.recordRun(ctx, runs.Run{
		UserID:          user.ID,
		IdeaID:          idea.ID,
		InputKind:       input.Kind,
		Status:          runs.StatusCompleted,
		DurationMs:      durationMs,
		Band:            idea.Band,
		OverallScore:    result.OverallScore,
		DefaultedFields: defaulted,
		CreatedAt:       startedAt,
	})
	return idea, nil
}

// recordRun writes to the ledger. Ledger failures never fail a submission.
func (s *Service) recordRun(ctx context.Context, run runs.Run) {
	if s.Runs == nil {
		return
	}
	run.ID = uuid.NewString()
	if run.DefaultedFields == nil {
		run.DefaultedFields = []string{}
	}
	if err := s.Runs.Create(ctx, run); err != nil {
		telemetry.Error("runs.record_failed", map[string]any{
			"user_id": run.UserID,
			"idea_id": run.IdeaID,
			"error":   err.Error(),
		})
	}
}

func (s *Service) archiveUpload(ctx context.Context, idea SubmittedIdea, input submission.Input) {
	if s.Store == nil || input.Kind == submission.KindText {
		return
	}
	key, err := object.SubmissionKey(idea.OwnerID, idea.ID, input.File.Name)
	if err == nil {
		_, err = s.Store.Put(ctx, key, input.File.MIMEType, bytes.NewReader(input.File.Data))
	}
	if err != nil {
		telemetry.Error("submission.archive_failed", map[string]any{
			"idea_id": idea.ID,
			"error":   err.Error(),
		})
	}
}

// Get returns an idea the user may see. Entrepreneurs only see their own.
func (s *Service) Get(ctx context.Context, user auth.User, id string) (SubmittedIdea, error) {
	idea, err := s.Repo.Get(ctx, id)
	if err != nil {
		return SubmittedIdea{}, err
	}
	if !user.Reviewer() && idea.OwnerID != user.ID {
		return SubmittedIdea{}, ErrNotFound
	}
	return idea, nil
}

// List returns ideas visible to the user.
func (s *Service) List(ctx context.Context, user auth.User, filter Filter) ([]SubmittedIdea, error) {
	if !user.Reviewer() {
		filter.OwnerID = user.ID
	}
	return s.Repo.List(ctx, filter)
}

// Annotate appends reviewer text to an idea.
func (s *Service) Annotate(ctx context.Context, user auth.User, id, text string) (SubmittedIdea, error) {
	if !user.Reviewer() {
		return SubmittedIdea{}, ErrForbidden
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return SubmittedIdea{}, ErrEmptyAnnotation
	}
	note := Annotation{
		ID:        uuid.NewString(),
		AuthorID:  user.ID,
		Role:      string(user.Role),
		Text:      text,
		CreatedAt: s.now(),
	}
	idea, err := s.Repo.AddAnnotation(ctx, id, note)
	if err != nil {
		return SubmittedIdea{}, err
	}
	telemetry.Info("idea.annotated", map[string]any{
		"idea_id":   id,
		"author_id": user.ID,
		"role":      string(user.Role),
	})
	return idea, nil
}

type cachedReport struct {
	filename string
	data     []byte
}

// ExportReport renders (or serves from cache) the idea's PDF report and
// archives it when a store is configured. On failure no bytes are returned.
func (s *Service) ExportReport(ctx context.Context, user auth.User, id string) (string, []byte, error) {
	idea, err := s.Get(ctx, user, id)
	if err != nil {
		return "", nil, err
	}
	if s.Reports != nil {
		if v, ok := s.Reports.Get(idea.ID); ok {
			if r, ok := v.(cachedReport); ok {
				metrics.IncReportCacheHit()
				return r.filename, r.data, nil
			}
		}
	}

	start := time.Now()
	data, err := s.Renderer.Render(idea)
	if err != nil {
		metrics.IncReportFailed()
		return "", nil, fmt.Errorf("%w: %v", ErrReportUnavailable, err)
	}
	metrics.IncReportRendered(float64(time.Since(start).Milliseconds()))
	filename := s.Renderer.Filename(idea)

	if s.Reports != nil {
		s.Reports.SetDefault(idea.ID, cachedReport{filename: filename, data: data})
	}
	s.archiveReport(ctx, idea.ID, filename, data)
	return filename, data, nil
}

func (s *Service) archiveReport(ctx context.Context, ideaID, filename string, data []byte) {
	if s.Store == nil {
		return
	}
	key, err := object.ReportKey(ideaID, filename)
	if err == nil {
		_, err = s.Store.Put(ctx, key, pdfContentType, bytes.NewReader(data))
	}
	if err != nil {
		telemetry.Error("report.archive_failed", map[string]any{
			"idea_id": ideaID,
			"error":   err.Error(),
		})
		return
	}
	telemetry.Info("report.archived", map[string]any{
		"idea_id": ideaID,
		"key":     key,
		"bytes":   len(data),
	})
}

// RecentRuns returns the latest ledger entries and their summary.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]runs.Run, runs.Summary, error) {
	if s.Runs == nil {
		return []runs.Run{}, runs.Summarize(nil), nil
	}
	list, err := s.Runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, runs.Summary{}, err
	}
	return list, runs.Summarize(list), nil
}
