package report

import (
	"fmt"

	"github.com/go-pdf/fpdf"
)

// pdfMeasurer measures text with the PDF engine's own font metrics, so the
// layout pass and the emitted document agree on every line width.
type pdfMeasurer struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

func newPDFMeasurer(pdf *fpdf.Fpdf) *pdfMeasurer {
	return &pdfMeasurer{pdf: pdf, translate: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (m *pdfMeasurer) TextWidth(font Font, text string) (float64, error) {
	m.pdf.SetFont(font.Family, font.Style, font.Size)
	w := m.pdf.GetStringWidth(m.translate(text))
	if m.pdf.Err() {
		return 0, fmt.Errorf("measure %q: %w", font.Family, m.pdf.Error())
	}
	return w, nil
}
