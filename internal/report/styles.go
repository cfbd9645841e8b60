package report

import "idea-analyzer/internal/scoring"

// Geometry is the fixed page geometry in millimetres.
type Geometry struct {
	PageWidth    float64
	PageHeight   float64
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64
	FooterY      float64
}

// A4 is the portrait A4 geometry used for every report.
var A4 = Geometry{
	PageWidth:    210,
	PageHeight:   297,
	MarginLeft:   20,
	MarginRight:  20,
	MarginTop:    20,
	MarginBottom: 22,
	FooterY:      287,
}

// UsableWidth is the text column width.
func (g Geometry) UsableWidth() float64 {
	return g.PageWidth - g.MarginLeft - g.MarginRight
}

// Bottom is the lowest y any content may reach.
func (g Geometry) Bottom() float64 {
	return g.PageHeight - g.MarginBottom
}

// ContentHeight is the vertical space available on a fresh page.
func (g Geometry) ContentHeight() float64 {
	return g.Bottom() - g.MarginTop
}

// Font selects a core PDF font.
type Font struct {
	Family string
	Style  string
	Size   float64
}

const ptToMM = 25.4 / 72

// LineHeight is the vertical advance for one line in this font.
func (f Font) LineHeight() float64 {
	return f.Size * ptToMM * 1.3
}

// ascent approximates the distance from the line top to the baseline.
func (f Font) ascent() float64 {
	return f.Size * ptToMM * 0.95
}

const fontFamily = "Helvetica"

var (
	fontTitle      = Font{Family: fontFamily, Style: "B", Size: 20}
	fontHeading    = Font{Family: fontFamily, Style: "B", Size: 14}
	fontSubheading = Font{Family: fontFamily, Style: "B", Size: 11}
	fontBody       = Font{Family: fontFamily, Size: 10}
	fontMeta       = Font{Family: fontFamily, Style: "I", Size: 9}
	fontFooter     = Font{Family: fontFamily, Size: 8}
	fontScore      = Font{Family: fontFamily, Style: "B", Size: 28}
)

var (
	colorText    = scoring.RGB{R: 31, G: 41, B: 55}
	colorMuted   = scoring.RGB{R: 107, G: 114, B: 128}
	colorHeading = scoring.RGB{R: 17, G: 24, B: 39}
	colorTrack   = scoring.RGB{R: 229, G: 231, B: 235}
	colorRule    = scoring.RGB{R: 209, G: 213, B: 219}
)

const (
	barHeight      = 4.0
	blockPadding   = 4.0
	sectionGap     = 6.0
	rubricScoreGap = 4.0
	bulletIndent   = 5.0
	headingSpacing = 2.0
)
