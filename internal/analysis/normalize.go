package analysis

import (
	"encoding/json"
	"math"

	"idea-analyzer/internal/scoring"
)

const (
	// DefaultRubricMaxScore is the rubric scale used when the payload omits maxScore.
	DefaultRubricMaxScore = 25
	maxRubricScale        = 1000

	DefaultStrength         = "The idea has a clear starting point to build on."
	DefaultWeakness         = "No specific weaknesses were identified."
	DefaultImprovement      = "Continue developing your business plan."
	DefaultLocalImpact      = "Local impact has not been assessed yet."
	DefaultRubricFeedback   = "No feedback was provided for this rubric."
	DefaultTrafficLightBand = scoring.BandYellow
)

const (
	fieldOverallScore     = "overallScore"
	fieldRubrics          = "rubrics"
	fieldStrengths        = "strengths"
	fieldWeaknesses       = "weaknesses"
	fieldImprovements     = "improvements"
	fieldOpportunities    = "opportunities"
	fieldThreats          = "threats"
	fieldTrafficLightBand = "trafficLightBand"
	fieldLocalImpact      = "localImpact"
	fieldDetailedFeedback = "detailedFeedback"
	canvasFieldPrefix     = "businessCanvas."
)

// Normalize maps a raw analysis payload to the canonical record. It never fails:
// malformed or missing data falls back to defaults.
func Normalize(raw json.RawMessage) AnalysisResult {
	out, _ := NormalizeTraced(raw)
	return out
}

// NormalizeTraced is Normalize plus the per-field provenance of every value.
func NormalizeTraced(raw json.RawMessage) (AnalysisResult, Provenance) {
	prov := Provenance{}

	root, _ := parseObject(raw)
	body, _ := root.child("analysis")
	canvasRaw, _ := body.child("businessCanvas")
	legacy, _ := body.child("businessAnalysis")
	scoringRaw, _ := body.child("aiScoring")

	out := AnalysisResult{
		BusinessCanvas: normalizeCanvas(canvasRaw, prov),
	}

	out.Strengths = firstList(prov, fieldStrengths, DefaultStrength,
		scoringRaw.get("strengths"), legacy.get("strengths"))
	out.Weaknesses = firstList(prov, fieldWeaknesses, DefaultWeakness,
		scoringRaw.get("weaknesses"), legacy.get("weaknesses"))
	out.Improvements = firstList(prov, fieldImprovements, DefaultImprovement,
		scoringRaw.get("improvements"), body.get("feedbackSuggestions"))

	out.Opportunities = optionalList(prov, fieldOpportunities, legacy.get("opportunities"))
	out.Threats = optionalList(prov, fieldThreats, legacy.get("threats"))

	band, src := normalizeBand(body.get("trafficLightScore"))
	out.TrafficLightBand = band
	prov[fieldTrafficLightBand] = src

	out.LocalImpact = stringOr(prov, fieldLocalImpact, body.get("localImpactMapping"), DefaultLocalImpact)
	out.DetailedFeedback = stringOr(prov, fieldDetailedFeedback, scoringRaw.get("detailedFeedback"), "")

	out.OverallScore, prov[fieldOverallScore] = normalizeOverallScore(scoringRaw.get("overallScore"))
	out.Rubrics, prov[fieldRubrics] = normalizeRubrics(scoringRaw.get("rubrics"))

	return out, prov
}

func normalizeCanvas(raw object, prov Provenance) Canvas {
	var c Canvas
	for _, slot := range Slots {
		slotRaw, src := raw.child(slot.Key)
		details := ""
		if src == SourceProvided {
			details, src = stringValue(slotRaw.get("details"))
		}
		if src != SourceProvided {
			details = slot.Placeholder
		}
		slot.field(&c).Details = details
		prov[canvasFieldPrefix+slot.Key] = src
	}
	return c
}

// firstList takes the first usable list among candidates. The first candidate
// is the current shape, later ones are legacy locations.
func firstList(prov Provenance, name, fallback string, candidates ...json.RawMessage) []string {
	primary := SourceAbsent
	for i, candidate := range candidates {
		items, src := stringList(candidate)
		if i == 0 {
			primary = src
		}
		if src == SourceProvided {
			if i == 0 {
				prov[name] = SourceProvided
			} else {
				prov[name] = SourceLegacy
			}
			return items
		}
	}
	prov[name] = primary
	return []string{fallback}
}

func optionalList(prov Provenance, name string, raw json.RawMessage) []string {
	items, src := stringList(raw)
	prov[name] = src
	if src != SourceProvided {
		return []string{}
	}
	return items
}

func stringOr(prov Provenance, name string, raw json.RawMessage, fallback string) string {
	value, src := stringValue(raw)
	prov[name] = src
	if src != SourceProvided {
		return fallback
	}
	return value
}

func normalizeBand(raw json.RawMessage) (scoring.Band, Source) {
	value, src := stringValue(raw)
	if src != SourceProvided {
		return DefaultTrafficLightBand, src
	}
	band, ok := scoring.ParseBand(value)
	if !ok {
		return DefaultTrafficLightBand, SourceInvalid
	}
	return band, SourceProvided
}

func normalizeOverallScore(raw json.RawMessage) (*int, Source) {
	value, src := numberValue(raw)
	if src != SourceProvided {
		return nil, src
	}
	if value < 0 || value > 100 {
		return nil, SourceInvalid
	}
	score := int(math.Round(value))
	return &score, SourceProvided
}

func normalizeRubrics(raw json.RawMessage) ([]Rubric, Source) {
	fields, src := orderedFields(raw)
	out := make([]Rubric, 0, len(fields))
	for _, f := range fields {
		rubricRaw, rsrc := parseObject(f.Value)
		if rsrc != SourceProvided {
			src = SourceInvalid
			continue
		}
		out = append(out, normalizeRubric(f.Key, rubricRaw))
	}
	if len(out) == 0 && src == SourceProvided {
		src = SourceEmpty
	}
	return out, src
}

func normalizeRubric(name string, raw object) Rubric {
	maxScore := DefaultRubricMaxScore
	if m, src := numberValue(raw.get("maxScore")); src == SourceProvided {
		if rounded := math.Round(m); rounded > 0 && rounded <= maxRubricScale {
			maxScore = int(rounded)
		}
	}
	score := 0
	if s, src := numberValue(raw.get("score")); src == SourceProvided {
		score = int(math.Round(math.Max(0, math.Min(s, float64(maxScore)))))
	}
	feedback, src := stringValue(raw.get("feedback"))
	if src != SourceProvided {
		feedback = DefaultRubricFeedback
	}
	return Rubric{Name: name, Score: score, MaxScore: maxScore, Feedback: feedback}
}
