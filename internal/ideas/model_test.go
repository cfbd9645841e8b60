package ideas

import (
	"testing"

	"idea-analyzer/internal/analysis"
	"idea-analyzer/internal/scoring"
	"idea-analyzer/internal/submission"
)

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		name     string
		explicit string
		input    submission.Input
		want     string
	}{
		{name: "explicit wins", explicit: "  My Title ", input: submission.TextInput("one two three"), want: "My Title"},
		{name: "first four words", input: submission.TextInput("one two  three four five"), want: "one two three four"},
		{name: "short text", input: submission.TextInput("solo"), want: "solo"},
		{name: "empty text", input: submission.TextInput(""), want: "New Business Idea"},
		{name: "document name", input: submission.Input{Kind: submission.KindDocument, File: submission.File{Name: "plan.v2.pdf"}}, want: "plan.v2"},
		{name: "audio name", input: submission.Input{Kind: submission.KindAudio, File: submission.File{Name: "pitch.m4a"}}, want: "pitch"},
		{name: "dotfile", input: submission.Input{Kind: submission.KindAudio, File: submission.File{Name: ".mp3"}}, want: "New Business Idea"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveTitle(tc.explicit, tc.input); got != tc.want {
				t.Fatalf("DeriveTitle = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBandFor(t *testing.T) {
	if got := BandFor(nil); got != scoring.BandYellow {
		t.Fatalf("nil result band = %q", got)
	}
	if got := BandFor(&analysis.AnalysisResult{TrafficLightBand: "purple"}); got != scoring.BandYellow {
		t.Fatalf("invalid band = %q", got)
	}
	if got := BandFor(&analysis.AnalysisResult{TrafficLightBand: scoring.BandRed}); got != scoring.BandRed {
		t.Fatalf("red band = %q", got)
	}
}
