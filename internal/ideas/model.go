package ideas

import (
	"path/filepath"
	"strings"
	"time"

	"idea-analyzer/internal/analysis"
	"idea-analyzer/internal/scoring"
	"idea-analyzer/internal/submission"
)

const defaultTitle = "New Business Idea"

// SubmittedIdea is one analysed submission. It is immutable after creation
// except for Annotations, which mentors and administrators append to.
type SubmittedIdea struct {
	ID          string                   `json:"id"`
	OwnerID     string                   `json:"ownerId"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	InputKind   submission.Kind          `json:"inputKind"`
	SubmittedAt time.Time                `json:"submittedAt"`
	Band        scoring.Band             `json:"band"`
	Result      *analysis.AnalysisResult `json:"result,omitempty"`
	Annotations []Annotation             `json:"annotations"`
}

// Annotation is reviewer text attached to an idea.
type Annotation struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// BandFor is the mandatory classification: the result's band, or yellow without one.
func BandFor(result *analysis.AnalysisResult) scoring.Band {
	if result == nil || !result.TrafficLightBand.Valid() {
		return scoring.BandYellow
	}
	return result.TrafficLightBand
}

// DeriveTitle picks an explicit title, else the file name without extension,
// else the first four words of the text.
func DeriveTitle(explicit string, input submission.Input) string {
	if t := strings.TrimSpace(explicit); t != "" {
		return t
	}
	if input.Kind != submission.KindText {
		name := strings.TrimSpace(input.File.Name)
		if base := strings.TrimSuffix(name, filepath.Ext(name)); strings.TrimSpace(base) != "" {
			return base
		}
		return defaultTitle
	}
	words := strings.Fields(input.Text)
	if len(words) == 0 {
		return defaultTitle
	}
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(words, " ")
}

// describe is the stored description for the idea.
func describe(input submission.Input) string {
	switch input.Kind {
	case submission.KindDocument:
		return "Business plan document: " + input.File.Name
	case submission.KindAudio:
		return "Audio pitch: " + input.File.Name
	default:
		return input.Text
	}
}
