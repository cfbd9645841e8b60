package report

import (
	"time"
	"unicode/utf8"

	"idea-analyzer/internal/analysis"
	"idea-analyzer/internal/ideas"
	"idea-analyzer/internal/scoring"
	"idea-analyzer/internal/submission"
)

// monoMeasurer gives every rune the same advance, scaled by font size.
type monoMeasurer struct{}

func (monoMeasurer) TextWidth(font Font, text string) (float64, error) {
	return float64(utf8.RuneCountInString(text)) * font.Size * 0.2, nil
}

func sampleIdea() ideas.SubmittedIdea {
	score := 82
	return ideas.SubmittedIdea{
		ID:          "idea-1",
		OwnerID:     "user-1",
		Title:       "Solar Kiosk Network",
		InputKind:   submission.KindText,
		SubmittedAt: time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC),
		Band:        scoring.BandGreen,
		Result: &analysis.AnalysisResult{
			OverallScore: &score,
			Rubrics: []analysis.Rubric{
				{Name: "innovation", Score: 23, MaxScore: 25, Feedback: "Strong differentiation from existing kiosks."},
				{Name: "marketFit", Score: 12, MaxScore: 25, Feedback: "Demand is plausible but unproven."},
			},
			BusinessCanvas:   analysis.PlaceholderCanvas(),
			Strengths:        []string{"Clear value proposition"},
			Weaknesses:       []string{"Thin go-to-market plan"},
			Improvements:     []string{"Run a pilot in two districts"},
			Opportunities:    []string{},
			Threats:          []string{},
			TrafficLightBand: scoring.BandGreen,
			LocalImpact:      "Creates jobs for local technicians.",
			DetailedFeedback: "A promising idea with a clear customer.",
		},
	}
}
