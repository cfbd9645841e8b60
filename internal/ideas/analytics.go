package ideas

import (
	"context"
	"math"
	"time"

	"idea-analyzer/internal/scoring"
	"idea-analyzer/internal/submission"
)

const trendWindow = 30 * 24 * time.Hour

// Analytics is the administrator's overview of all submissions.
type Analytics struct {
	Total         int                     `json:"total"`
	ByBand        map[scoring.Band]int    `json:"byBand"`
	ByInputKind   map[submission.Kind]int `json:"byInputKind"`
	Scored        int                     `json:"scored"`
	AverageScore  *float64                `json:"averageScore,omitempty"`
	LastWindow    int                     `json:"last30Days"`
	PrevWindow    int                     `json:"previous30Days"`
	GrowthPercent float64                 `json:"growthPercent"`
	Trend         scoring.Trend           `json:"trend"`
	Annotated     int                     `json:"annotated"`
}

// Analytics aggregates every idea in the repository.
func (s *Service) Analytics(ctx context.Context) (Analytics, error) {
	all, err := s.Repo.List(ctx, Filter{})
	if err != nil {
		return Analytics{}, err
	}
	return summarize(all, s.now()), nil
}

func summarize(all []SubmittedIdea, now time.Time) Analytics {
	a := Analytics{
		Total: len(all),
		ByBand: map[scoring.Band]int{
			scoring.BandGreen:  0,
			scoring.BandYellow: 0,
			scoring.BandRed:    0,
		},
		ByInputKind: map[submission.Kind]int{},
	}
	var scoreSum int
	for _, idea := range all {
		a.ByBand[idea.Band]++
		a.ByInputKind[idea.InputKind]++
		if len(idea.Annotations) > 0 {
			a.Annotated++
		}
		if idea.Result != nil && idea.Result.OverallScore != nil {
			a.Scored++
			scoreSum += *idea.Result.OverallScore
		}
		age := now.Sub(idea.SubmittedAt)
		switch {
		case age < 0:
		case age < trendWindow:
			a.LastWindow++
		case age < 2*trendWindow:
			a.PrevWindow++
		}
	}
	if a.Scored > 0 {
		avg := math.Round(float64(scoreSum)/float64(a.Scored)*10) / 10
		a.AverageScore = &avg
	}
	a.GrowthPercent = scoring.GrowthPercent(a.PrevWindow, a.LastWindow)
	a.Trend = scoring.ClassifyTrend(a.GrowthPercent)
	return a
}
