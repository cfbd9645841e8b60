package analysis

import (
	"encoding/json"
	"reflect"
	"testing"

	"idea-analyzer/internal/scoring"
)

const fullPayload = `{
  "success": true,
  "analysis": {
    "businessCanvas": {
      "keyPartners": {"description": "Strategic partnerships", "details": "Spice grower cooperatives"},
      "keyActivities": {"details": "Aggregating orders"},
      "keyResources": {"details": "Logistics network"},
      "valueProposition": {"details": "Fair prices for smallholders"},
      "customerRelationships": {"details": "Community managers"},
      "channels": {"details": "Mobile app and SMS"},
      "customerSegments": {"details": "Smallholder spice farmers"},
      "costStructure": {"details": "Warehousing and transport"},
      "revenueStreams": {"details": "Transaction fees"}
    },
    "businessAnalysis": {
      "strengths": ["legacy strength"],
      "weaknesses": ["legacy weakness"],
      "opportunities": ["Export markets"],
      "threats": ["Price volatility"]
    },
    "trafficLightScore": "GREEN",
    "feedbackSuggestions": ["legacy suggestion"],
    "localImpactMapping": "Creates rural jobs.",
    "aiScoring": {
      "overallScore": 81.6,
      "rubrics": {
        "innovation": {"score": 20, "maxScore": 25, "feedback": "Novel pooling model"},
        "clarity": {"score": 23, "maxScore": 25, "feedback": "Clear."},
        "completeness": {"score": 15, "maxScore": 25, "feedback": "Missing financials"},
        "feasibility": {"score": 24, "maxScore": 25, "feedback": "Realistic"}
      },
      "strengths": ["Strong community ties"],
      "weaknesses": ["Thin margins"],
      "improvements": ["Add a pricing model"],
      "detailedFeedback": "Good plan."
    }
  }
}`

func assertDefaults(t *testing.T, got AnalysisResult) {
	t.Helper()
	if got.BusinessCanvas != PlaceholderCanvas() {
		t.Fatalf("expected placeholder canvas, got %+v", got.BusinessCanvas)
	}
	if !reflect.DeepEqual(got.Strengths, []string{DefaultStrength}) {
		t.Fatalf("unexpected strengths: %v", got.Strengths)
	}
	if !reflect.DeepEqual(got.Weaknesses, []string{DefaultWeakness}) {
		t.Fatalf("unexpected weaknesses: %v", got.Weaknesses)
	}
	if !reflect.DeepEqual(got.Improvements, []string{DefaultImprovement}) {
		t.Fatalf("unexpected improvements: %v", got.Improvements)
	}
	if got.TrafficLightBand != scoring.BandYellow {
		t.Fatalf("expected yellow band, got %s", got.TrafficLightBand)
	}
	if got.OverallScore != nil {
		t.Fatalf("expected absent overall score, got %d", *got.OverallScore)
	}
	if got.Rubrics == nil || len(got.Rubrics) != 0 {
		t.Fatalf("expected empty non-nil rubrics, got %#v", got.Rubrics)
	}
	if got.Opportunities == nil || got.Threats == nil {
		t.Fatalf("expected non-nil opportunity and threat lists")
	}
	if got.LocalImpact != DefaultLocalImpact {
		t.Fatalf("unexpected local impact: %q", got.LocalImpact)
	}
}

func TestNormalizeDefaultsForMissingOrMalformedPayloads(t *testing.T) {
	payloads := map[string]string{
		"empty object":       `{}`,
		"null":               `null`,
		"empty body":         ``,
		"malformed json":     `{"analysis": {`,
		"array":              `[1,2,3]`,
		"analysis null":      `{"analysis": null}`,
		"analysis string":    `{"analysis": "oops"}`,
		"wrong nested types": `{"analysis": {"businessCanvas": [], "aiScoring": "x", "businessAnalysis": 3, "trafficLightScore": 5}}`,
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			assertDefaults(t, Normalize(json.RawMessage(payload)))
		})
	}
}

func TestNormalizeStubScenario(t *testing.T) {
	raw := `{"analysis": {"trafficLightScore": "Green", "aiScoring": {"overallScore": 82, "rubrics": {"clarity": {"score": 23, "maxScore": 25, "feedback": "Clear."}}}}}`
	got := Normalize(json.RawMessage(raw))

	if got.TrafficLightBand != scoring.BandGreen {
		t.Fatalf("expected green band, got %s", got.TrafficLightBand)
	}
	if got.OverallScore == nil || *got.OverallScore != 82 {
		t.Fatalf("expected overall score 82, got %v", got.OverallScore)
	}
	if len(got.Rubrics) != 1 || got.Rubrics[0].Name != "clarity" {
		t.Fatalf("expected single clarity rubric, got %+v", got.Rubrics)
	}
	if got.Rubrics[0].Band() != scoring.BandGreen {
		t.Fatalf("expected clarity rubric green, got %s", got.Rubrics[0].Band())
	}
	if got.BusinessCanvas != PlaceholderCanvas() {
		t.Fatalf("expected all canvas slots to hold placeholders")
	}
}

func TestNormalizeFullPayload(t *testing.T) {
	got, prov := NormalizeTraced(json.RawMessage(fullPayload))

	if got.BusinessCanvas.KeyPartners.Details != "Spice grower cooperatives" {
		t.Fatalf("unexpected key partners: %q", got.BusinessCanvas.KeyPartners.Details)
	}
	if !reflect.DeepEqual(got.Strengths, []string{"Strong community ties"}) {
		t.Fatalf("expected aiScoring strengths to win, got %v", got.Strengths)
	}
	if !reflect.DeepEqual(got.Improvements, []string{"Add a pricing model"}) {
		t.Fatalf("expected aiScoring improvements to win, got %v", got.Improvements)
	}
	if got.OverallScore == nil || *got.OverallScore != 82 {
		t.Fatalf("expected rounded score 82, got %v", got.OverallScore)
	}
	names := make([]string, 0, len(got.Rubrics))
	for _, r := range got.Rubrics {
		names = append(names, r.Name)
	}
	if !reflect.DeepEqual(names, []string{"innovation", "clarity", "completeness", "feasibility"}) {
		t.Fatalf("expected payload rubric order, got %v", names)
	}
	if got.DetailedFeedback != "Good plan." || got.LocalImpact != "Creates rural jobs." {
		t.Fatalf("unexpected free text: %q / %q", got.DetailedFeedback, got.LocalImpact)
	}
	if len(prov.Defaulted()) != 0 {
		t.Fatalf("expected no defaulted fields, got %v", prov.Defaulted())
	}
}

func TestNormalizeCanvasSentinelAndBlank(t *testing.T) {
	raw := `{"analysis": {"businessCanvas": {
		"keyPartners": {"details": "Not specified"},
		"channels": {"details": "   "},
		"revenueStreams": {"details": 42},
		"costStructure": {"details": "Freight"}
	}}}`
	got, prov := NormalizeTraced(json.RawMessage(raw))

	partners, _ := SlotByKey("keyPartners")
	if got.BusinessCanvas.KeyPartners.Details != partners.Placeholder {
		t.Fatalf("expected sentinel replaced by placeholder, got %q", got.BusinessCanvas.KeyPartners.Details)
	}
	if got.BusinessCanvas.CostStructure.Details != "Freight" {
		t.Fatalf("expected provided cost structure, got %q", got.BusinessCanvas.CostStructure.Details)
	}

	wantSources := map[string]Source{
		"businessCanvas.keyPartners":      SourceSentinel,
		"businessCanvas.channels":         SourceEmpty,
		"businessCanvas.revenueStreams":   SourceInvalid,
		"businessCanvas.costStructure":    SourceProvided,
		"businessCanvas.customerSegments": SourceAbsent,
	}
	for field, want := range wantSources {
		if prov[field] != want {
			t.Fatalf("provenance[%s] = %s, want %s", field, prov[field], want)
		}
	}
}

func TestNormalizeCanvasSentinelMatchesExactly(t *testing.T) {
	raw := `{"analysis": {"businessCanvas": {
		"keyPartners": {"details": "not specified"},
		"channels": {"details": " Not specified "},
		"keyResources": {"details": "Not specified"}
	}}}`
	got, prov := NormalizeTraced(json.RawMessage(raw))

	if got.BusinessCanvas.KeyPartners.Details != "not specified" {
		t.Fatalf("expected lower-case text kept verbatim, got %q", got.BusinessCanvas.KeyPartners.Details)
	}
	if got.BusinessCanvas.Channels.Details != " Not specified " {
		t.Fatalf("expected padded text kept verbatim, got %q", got.BusinessCanvas.Channels.Details)
	}
	wantSources := map[string]Source{
		"businessCanvas.keyPartners":  SourceProvided,
		"businessCanvas.channels":     SourceProvided,
		"businessCanvas.keyResources": SourceSentinel,
	}
	for field, want := range wantSources {
		if prov[field] != want {
			t.Fatalf("provenance[%s] = %s, want %s", field, prov[field], want)
		}
	}
}

func TestNormalizeLegacyListFallback(t *testing.T) {
	raw := `{"analysis": {
		"businessAnalysis": {"strengths": ["Local knowledge"], "weaknesses": ["Small team"]},
		"feedbackSuggestions": ["Build a website"],
		"aiScoring": {"strengths": [], "weaknesses": null}
	}}`
	got, prov := NormalizeTraced(json.RawMessage(raw))

	if !reflect.DeepEqual(got.Strengths, []string{"Local knowledge"}) {
		t.Fatalf("unexpected strengths: %v", got.Strengths)
	}
	if !reflect.DeepEqual(got.Weaknesses, []string{"Small team"}) {
		t.Fatalf("unexpected weaknesses: %v", got.Weaknesses)
	}
	if !reflect.DeepEqual(got.Improvements, []string{"Build a website"}) {
		t.Fatalf("unexpected improvements: %v", got.Improvements)
	}
	if prov["strengths"] != SourceLegacy || prov["improvements"] != SourceLegacy {
		t.Fatalf("expected legacy provenance, got %v", prov)
	}
}

func TestNormalizeTrafficLightBand(t *testing.T) {
	tests := []struct {
		raw  string
		want scoring.Band
	}{
		{`"GREEN"`, scoring.BandGreen},
		{`"Red"`, scoring.BandRed},
		{`" yellow "`, scoring.BandYellow},
		{`"amber"`, scoring.BandYellow},
		{`""`, scoring.BandYellow},
		{`7`, scoring.BandYellow},
	}
	for _, tt := range tests {
		got := Normalize(json.RawMessage(`{"analysis": {"trafficLightScore": ` + tt.raw + `}}`))
		if got.TrafficLightBand != tt.want {
			t.Fatalf("trafficLightScore %s: got %s, want %s", tt.raw, got.TrafficLightBand, tt.want)
		}
	}
}

func TestNormalizeOverallScoreBounds(t *testing.T) {
	tests := []struct {
		raw  string
		want *int
	}{
		{`0`, intPtr(0)},
		{`100`, intPtr(100)},
		{`74.4`, intPtr(74)},
		{`100.4`, nil},
		{`-1`, nil},
		{`"82"`, nil},
		{`null`, nil},
		{`1e400`, nil},
	}
	for _, tt := range tests {
		got := Normalize(json.RawMessage(`{"analysis": {"aiScoring": {"overallScore": ` + tt.raw + `}}}`))
		if !reflect.DeepEqual(got.OverallScore, tt.want) {
			t.Fatalf("overallScore %s: got %v, want %v", tt.raw, got.OverallScore, tt.want)
		}
	}
}

func TestNormalizeRubricDefaults(t *testing.T) {
	raw := `{"analysis": {"aiScoring": {"rubrics": {
		"impact": {"score": 40},
		"broken": "n/a",
		"reach": {"score": -3, "maxScore": 10, "feedback": ""}
	}}}}`
	got, prov := NormalizeTraced(json.RawMessage(raw))

	want := []Rubric{
		{Name: "impact", Score: DefaultRubricMaxScore, MaxScore: DefaultRubricMaxScore, Feedback: DefaultRubricFeedback},
		{Name: "reach", Score: 0, MaxScore: 10, Feedback: DefaultRubricFeedback},
	}
	if !reflect.DeepEqual(got.Rubrics, want) {
		t.Fatalf("unexpected rubrics:\n got %+v\nwant %+v", got.Rubrics, want)
	}
	if prov["rubrics"] != SourceInvalid {
		t.Fatalf("expected invalid rubric provenance, got %s", prov["rubrics"])
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for name, payload := range map[string]string{"full": fullPayload, "empty": `{}`} {
		t.Run(name, func(t *testing.T) {
			first := Normalize(json.RawMessage(payload))
			raw, err := first.Raw()
			if err != nil {
				t.Fatalf("Raw: %v", err)
			}
			second, prov := NormalizeTraced(raw)
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("normalize not idempotent:\nfirst  %+v\nsecond %+v", first, second)
			}
			for _, slot := range Slots {
				if prov["businessCanvas."+slot.Key] != SourceProvided {
					t.Fatalf("expected re-normalized canvas slot %s to be provided", slot.Key)
				}
			}
		})
	}
}

func TestProvenanceDegraded(t *testing.T) {
	_, prov := NormalizeTraced(json.RawMessage(`{}`))
	if !prov.Degraded() {
		t.Fatalf("expected empty payload to be degraded")
	}
	_, prov = NormalizeTraced(json.RawMessage(fullPayload))
	if prov.Degraded() {
		t.Fatalf("expected full payload not to be degraded")
	}
}

func intPtr(v int) *int { return &v }
