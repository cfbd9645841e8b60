package report

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"idea-analyzer/internal/ideas"
	"idea-analyzer/internal/scoring"
	"idea-analyzer/internal/shared/telemetry"
)

// ErrDocumentGeneration wraps every failure to produce a report. No partial
// document is ever returned alongside it.
var ErrDocumentGeneration = errors.New("report: document generation failed")

// Renderer turns a submitted idea into a PDF report.
type Renderer struct {
	Geometry Geometry
	Now      func() time.Time
}

// NewRenderer returns a renderer on A4.
func NewRenderer() *Renderer {
	return &Renderer{Geometry: A4, Now: time.Now}
}

// Render lays the idea out, stamps page footers and serializes the document.
func Render(idea ideas.SubmittedIdea) ([]byte, error) {
	return NewRenderer().Render(idea)
}

func (r *Renderer) Render(idea ideas.SubmittedIdea) (out []byte, err error) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = fmt.Errorf("%w: panic: %v", ErrDocumentGeneration, rec)
		}
		if err != nil {
			telemetry.Error("report.render_failed", map[string]any{
				"idea_id": idea.ID,
				"error":   err.Error(),
			})
		}
	}()

	geo := r.Geometry
	if geo.PageWidth == 0 {
		geo = A4
	}
	pdf := newDocument(geo)
	m := newPDFMeasurer(pdf)

	layout, err := LayoutIdea(idea, geo, m)
	if err != nil {
		return nil, fmt.Errorf("%w: layout: %v", ErrDocumentGeneration, err)
	}
	if err := StampFooters(layout, m); err != nil {
		return nil, fmt.Errorf("%w: footers: %v", ErrDocumentGeneration, err)
	}

	pdf.SetTitle(displayTitle(idea.Title)+" - Business Report", true)
	pdf.SetCreator("idea-analyzer", true)
	if r.Now != nil {
		pdf.SetCreationDate(r.Now())
	}
	emit(pdf, layout, m.translate)
	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrDocumentGeneration, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: output: %v", ErrDocumentGeneration, err)
	}
	telemetry.Info("report.rendered", map[string]any{
		"idea_id":    idea.ID,
		"pages":      layout.Total(),
		"bytes":      buf.Len(),
		"latency_ms": time.Since(start).Milliseconds(),
	})
	return buf.Bytes(), nil
}

// Filename is the suggested download name for the idea's report.
func (r *Renderer) Filename(idea ideas.SubmittedIdea) string {
	return Filename(idea.Title)
}

func newDocument(geo Geometry) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: geo.PageWidth, Ht: geo.PageHeight},
	})
	pdf.SetMargins(geo.MarginLeft, geo.MarginTop, geo.MarginRight)
	pdf.SetAutoPageBreak(false, 0)
	return pdf
}

// emit replays the laid-out pages into the document.
func emit(pdf *fpdf.Fpdf, layout *Layout, translate func(string) string) {
	for _, page := range layout.Pages {
		pdf.AddPage()
		for _, op := range page.Ops {
			switch op.Kind {
			case OpText:
				pdf.SetFont(op.Font.Family, op.Font.Style, op.Font.Size)
				setText(pdf, op.Color)
				pdf.Text(op.X, op.Y, translate(op.Text))
			case OpRect:
				pdf.SetFillColor(op.Color.R, op.Color.G, op.Color.B)
				pdf.Rect(op.X, op.Y, op.W, op.H, "F")
			case OpLine:
				pdf.SetDrawColor(op.Color.R, op.Color.G, op.Color.B)
				pdf.SetLineWidth(0.3)
				pdf.Line(op.X, op.Y, op.X2, op.Y2)
			}
			if pdf.Err() {
				return
			}
		}
	}
}

func setText(pdf *fpdf.Fpdf, c scoring.RGB) {
	pdf.SetTextColor(c.R, c.G, c.B)
}
