package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"idea-analyzer/internal/analysis"
	"idea-analyzer/internal/ideas"
	"idea-analyzer/internal/report"
	"idea-analyzer/internal/scoring"
	"idea-analyzer/internal/submission"
)

func main() {
	outPath := flag.String("out", "./out/sample_report.pdf", "output path for generated PDF")
	flag.Parse()

	idea := sampleIdea()

	pdfBytes, err := report.Render(idea)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		os.Exit(1)
	}

	if err := writeOutputs(*outPath, idea, pdfBytes); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}

	pages, err := validateRenderedPDF(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OK: wrote %s (%d pages)\n", *outPath, pages)
}

func writeOutputs(outPath string, idea ideas.SubmittedIdea, pdfBytes []byte) error {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(outPath, pdfBytes, 0o644); err != nil {
		return err
	}

	ideaPath := filepath.Join(dir, "sample_idea.json")
	payload, err := json.MarshalIndent(idea, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ideaPath, payload, 0o644)
}

func sampleIdea() ideas.SubmittedIdea {
	score := 68
	return ideas.SubmittedIdea{
		ID:          "demo-idea",
		OwnerID:     "user-entrepreneur",
		Title:       "Community Cold Storage",
		Description: "Shared solar-powered cold rooms for smallholder farmers at rural market towns.",
		InputKind:   submission.KindText,
		SubmittedAt: time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC),
		Band:        scoring.BandYellow,
		Result: &analysis.AnalysisResult{
			OverallScore: &score,
			Rubrics: []analysis.Rubric{
				{Name: "completeness", Score: 20, MaxScore: 25, Feedback: "Comprehensive business model coverage; Financial considerations included"},
				{Name: "clarity", Score: 14, MaxScore: 25, Feedback: "Adequate detail level; Customer segment identified"},
				{Name: "feasibility", Score: 19, MaxScore: 25, Feedback: "Key resources well identified; Revenue model present"},
				{Name: "innovation", Score: 15, MaxScore: 25, Feedback: "Sustainability considerations present"},
			},
			BusinessCanvas: analysis.Canvas{
				KeyPartners:           analysis.CanvasField{Details: "Farmer cooperatives, solar installers, microfinance lenders"},
				KeyActivities:         analysis.CanvasField{Details: "Installing cold rooms, booking storage slots, maintenance"},
				KeyResources:          analysis.CanvasField{Details: "Cold rooms, solar arrays, booking app, field technicians"},
				ValueProposition:      analysis.CanvasField{Details: "Cut post-harvest losses by keeping produce fresh until market day"},
				CustomerRelationships: analysis.CanvasField{Details: "Cooperative memberships and SMS reminders"},
				Channels:              analysis.CanvasField{Details: "Market-town kiosks and cooperative meetings"},
				CustomerSegments:      analysis.CanvasField{Details: "Smallholder vegetable and dairy farmers"},
				CostStructure:         analysis.CanvasField{Details: "Equipment leases, technicians, mobile money fees"},
				RevenueStreams:        analysis.CanvasField{Details: "Pay-per-crate storage fees and seasonal subscriptions"},
			},
			Strengths:        []string{"Good foundation", "Clear direction", "Solid core concept"},
			Weaknesses:       []string{"Lacks clarity in key areas"},
			Improvements:     []string{"Describe customer segments in more detail", "Develop detailed financial projections and funding requirements"},
			Opportunities:    []string{"Increasing demand for local produce", "Expansion to neighbouring market towns"},
			Threats:          []string{"Weather dependency and seasonal variation"},
			TrafficLightBand: scoring.BandYellow,
			LocalImpact:      "Creates technician jobs in market towns and raises farm incomes by reducing spoilage.",
			DetailedFeedback: "Good business plan with room for enhancement in specific areas. Continue developing key components.",
		},
	}
}

func validateRenderedPDF(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	pages := reader.NumPage()
	if pages == 0 {
		return 0, fmt.Errorf("document has no pages")
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return 0, err
	}
	text := strings.Join(strings.Fields(buf.String()), "")
	want := fmt.Sprintf("Page1of%d", pages)
	if !strings.Contains(text, want) {
		return 0, fmt.Errorf("footer %q not found", want)
	}
	return pages, nil
}
