package report

import "testing"

func TestFilename(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Solar Kiosk", "Solar_Kiosk_Business_Report.pdf"},
		{"Café & Co.", "Caf____Co_Business_Report.pdf"},
		{"plan-2026", "plan_2026_Business_Report.pdf"},
		{"   ", "Business_Idea_Business_Report.pdf"},
	}
	for _, tc := range cases {
		if got := Filename(tc.title); got != tc.want {
			t.Fatalf("Filename(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"innovation":   "Innovation",
		"marketFit":    "Market Fit",
		"market_fit":   "Market Fit",
		"go-to-market": "Go To Market",
		"":             "Rubric",
	}
	for in, want := range cases {
		if got := humanize(in); got != want {
			t.Fatalf("humanize(%q) = %q, want %q", in, got, want)
		}
	}
}
