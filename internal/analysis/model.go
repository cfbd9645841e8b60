package analysis

import "idea-analyzer/internal/scoring"

// AnalysisResult is the canonical, fully defaulted analysis record.
// Consumers never need to nil-check anything except OverallScore, whose
// absence means "no AI score" and must not be shown as zero.
type AnalysisResult struct {
	OverallScore     *int         `json:"overallScore,omitempty"`
	Rubrics          []Rubric     `json:"rubrics"`
	BusinessCanvas   Canvas       `json:"businessCanvas"`
	Strengths        []string     `json:"strengths"`
	Weaknesses       []string     `json:"weaknesses"`
	Improvements     []string     `json:"improvements"`
	Opportunities    []string     `json:"opportunities"`
	Threats          []string     `json:"threats"`
	TrafficLightBand scoring.Band `json:"trafficLightBand"`
	LocalImpact      string       `json:"localImpact"`
	DetailedFeedback string       `json:"detailedFeedback"`
}

// Rubric is one named scoring dimension. Order in AnalysisResult.Rubrics follows the raw payload.
type Rubric struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
	Feedback string `json:"feedback"`
}

// Band classifies the rubric against its own maximum.
func (r Rubric) Band() scoring.Band {
	return scoring.ClassifyRubric(r.Score, r.MaxScore)
}

// Fraction returns score/maxScore clamped to [0,1].
func (r Rubric) Fraction() float64 {
	if r.MaxScore <= 0 {
		return 0
	}
	f := float64(r.Score) / float64(r.MaxScore)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// HasScore reports whether an overall score was supplied.
func (r AnalysisResult) HasScore() bool {
	return r.OverallScore != nil
}

// ScoreBand is the band of the overall score when present, else the traffic-light band.
func (r AnalysisResult) ScoreBand() scoring.Band {
	if r.OverallScore != nil {
		return scoring.Classify(*r.OverallScore)
	}
	return r.TrafficLightBand
}

// CanvasField holds the text for one Business Model Canvas slot.
type CanvasField struct {
	Details string `json:"details"`
}

// Canvas is the nine-slot Business Model Canvas. Every slot is always populated.
type Canvas struct {
	KeyPartners           CanvasField `json:"keyPartners"`
	KeyActivities         CanvasField `json:"keyActivities"`
	KeyResources          CanvasField `json:"keyResources"`
	ValueProposition      CanvasField `json:"valueProposition"`
	CustomerRelationships CanvasField `json:"customerRelationships"`
	Channels              CanvasField `json:"channels"`
	CustomerSegments      CanvasField `json:"customerSegments"`
	CostStructure         CanvasField `json:"costStructure"`
	RevenueStreams        CanvasField `json:"revenueStreams"`
}

// CanvasEntry is a display row for one canvas slot.
type CanvasEntry struct {
	Key     string
	Title   string
	Details string
}

// Entries lists the slots in canonical order.
func (c Canvas) Entries() []CanvasEntry {
	out := make([]CanvasEntry, 0, len(Slots))
	for _, s := range Slots {
		out = append(out, CanvasEntry{Key: s.Key, Title: s.Title, Details: s.field(&c).Details})
	}
	return out
}
