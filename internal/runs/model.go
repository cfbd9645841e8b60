package runs

import (
	"context"
	"errors"
	"sort"
	"time"

	"idea-analyzer/internal/scoring"
	"idea-analyzer/internal/submission"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var ErrNotFound = errors.New("not found")

// Run records one analysis attempt.
type Run struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	IdeaID          string          `json:"ideaId,omitempty"`
	InputKind       submission.Kind `json:"inputKind"`
	Status          string          `json:"status"`
	ErrorCode       string          `json:"errorCode,omitempty"`
	DurationMs      int64           `json:"durationMs"`
	Band            scoring.Band    `json:"band,omitempty"`
	OverallScore    *int            `json:"overallScore,omitempty"`
	DefaultedFields []string        `json:"defaultedFields"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Repo persists runs.
type Repo interface {
	Create(ctx context.Context, run Run) error
	ListRecent(ctx context.Context, limit int) ([]Run, error)
}

// FieldRate is how often a field was defaulted among completed runs.
type FieldRate struct {
	Field string  `json:"field"`
	Count int     `json:"count"`
	Rate  float64 `json:"rate"`
}

// Summary aggregates a batch of runs.
type Summary struct {
	Total         int         `json:"total"`
	Completed     int         `json:"completed"`
	Failed        int         `json:"failed"`
	Degraded      int         `json:"degraded"`
	AvgDurationMs int64       `json:"avgDurationMs"`
	Defaulted     []FieldRate `json:"defaulted"`
}

// Summarize counts failures and per-field defaulting. Rates are relative to
// completed runs; fields are ordered by count, then name.
func Summarize(runs []Run) Summary {
	s := Summary{Total: len(runs), Defaulted: []FieldRate{}}
	counts := map[string]int{}
	var totalMs int64
	for _, r := range runs {
		totalMs += r.DurationMs
		if r.Status != StatusCompleted {
			s.Failed++
			continue
		}
		s.Completed++
		if len(r.DefaultedFields) > 0 {
			s.Degraded++
		}
		for _, f := range r.DefaultedFields {
			counts[f]++
		}
	}
	if s.Total > 0 {
		s.AvgDurationMs = totalMs / int64(s.Total)
	}
	for f, n := range counts {
		s.Defaulted = append(s.Defaulted, FieldRate{Field: f, Count: n, Rate: float64(n) / float64(s.Completed)})
	}
	sort.Slice(s.Defaulted, func(i, j int) bool {
		if s.Defaulted[i].Count != s.Defaulted[j].Count {
			return s.Defaulted[i].Count > s.Defaulted[j].Count
		}
		return s.Defaulted[i].Field < s.Defaulted[j].Field
	})
	return s
}
