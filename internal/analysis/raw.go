package analysis

import (
	"bytes"
	"encoding/json"
)

type rawEnvelope struct {
	Analysis rawAnalysis `json:"analysis"`
}

type rawAnalysis struct {
	BusinessCanvas     map[string]CanvasField `json:"businessCanvas"`
	BusinessAnalysis   rawBusinessAnalysis    `json:"businessAnalysis"`
	TrafficLightScore  string                 `json:"trafficLightScore"`
	LocalImpactMapping string                 `json:"localImpactMapping"`
	AIScoring          rawScoring             `json:"aiScoring"`
}

type rawBusinessAnalysis struct {
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

type rawScoring struct {
	OverallScore     *int           `json:"overallScore,omitempty"`
	Rubrics          orderedRubrics `json:"rubrics"`
	Strengths        []string       `json:"strengths"`
	Weaknesses       []string       `json:"weaknesses"`
	Improvements     []string       `json:"improvements"`
	DetailedFeedback string         `json:"detailedFeedback"`
}

// orderedRubrics marshals as a JSON object whose keys keep slice order.
type orderedRubrics []Rubric

type rawRubric struct {
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
	Feedback string `json:"feedback"`
}

func (o orderedRubrics) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(rawRubric{Score: r.Score, MaxScore: r.MaxScore, Feedback: r.Feedback})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Raw re-expresses the canonical record in the analysis service's payload shape.
// Normalizing the output yields the same record.
func (r AnalysisResult) Raw() (json.RawMessage, error) {
	canvas := make(map[string]CanvasField, len(Slots))
	for _, e := range r.BusinessCanvas.Entries() {
		canvas[e.Key] = CanvasField{Details: e.Details}
	}
	env := rawEnvelope{Analysis: rawAnalysis{
		BusinessCanvas: canvas,
		BusinessAnalysis: rawBusinessAnalysis{
			Opportunities: r.Opportunities,
			Threats:       r.Threats,
		},
		TrafficLightScore:  string(r.TrafficLightBand),
		LocalImpactMapping: r.LocalImpact,
		AIScoring: rawScoring{
			OverallScore:     r.OverallScore,
			Rubrics:          orderedRubrics(r.Rubrics),
			Strengths:        r.Strengths,
			Weaknesses:       r.Weaknesses,
			Improvements:     r.Improvements,
			DetailedFeedback: r.DetailedFeedback,
		},
	}}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}
