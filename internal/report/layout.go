package report

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"idea-analyzer/internal/analysis"
	"idea-analyzer/internal/ideas"
	"idea-analyzer/internal/scoring"
)

// OpKind is the kind of a drawing operation.
type OpKind int

const (
	OpText OpKind = iota
	OpRect
	OpLine
)

// Op is one positioned drawing operation. For text, Y is the baseline.
// For rects, (X,Y) is the top-left corner. For lines, (X,Y)-(X2,Y2).
type Op struct {
	Kind   OpKind
	X, Y   float64
	W, H   float64
	X2, Y2 float64
	Text   string
	Font   Font
	Color  scoring.RGB
	Footer bool
}

// Bottom is the lowest y the op touches.
func (o Op) Bottom() float64 {
	switch o.Kind {
	case OpRect:
		return o.Y + o.H
	case OpLine:
		if o.Y2 > o.Y {
			return o.Y2
		}
		return o.Y
	default:
		return o.Y
	}
}

// Page is one laid-out page buffer.
type Page struct {
	Number int
	Ops    []Op
	Footer string
}

// Layout is the result of the content pass: every page plus the total count.
type Layout struct {
	Geometry Geometry
	Pages    []Page
}

// Total is N in "Page X of N".
func (l *Layout) Total() int {
	return len(l.Pages)
}

// LayoutIdea runs the content pass. Footers are not stamped yet.
func LayoutIdea(idea ideas.SubmittedIdea, geo Geometry, m Measurer) (*Layout, error) {
	e := &engine{geo: geo, m: m}
	e.newPage()

	result := analysis.AnalysisResult{
		BusinessCanvas: analysis.PlaceholderCanvas(),
		Rubrics:        []analysis.Rubric{},
	}
	if idea.Result != nil {
		result = *idea.Result
	}

	steps := []func(ideas.SubmittedIdea, analysis.AnalysisResult) error{
		e.header,
		e.overallScore,
		e.rubrics,
		e.canvas,
		e.detailedAnalysis,
	}
	for _, step := range steps {
		if err := step(idea, result); err != nil {
			return nil, err
		}
	}
	return &Layout{Geometry: geo, Pages: e.pages}, nil
}

// StampFooters is the second pass: with N known, write "Page X of N" into every page.
func StampFooters(l *Layout, m Measurer) error {
	total := l.Total()
	for i := range l.Pages {
		text := fmt.Sprintf("Page %d of %d", i+1, total)
		w, err := m.TextWidth(fontFooter, text)
		if err != nil {
			return err
		}
		p := &l.Pages[i]
		p.Footer = text
		p.Ops = append(p.Ops, Op{
			Kind:   OpText,
			X:      (l.Geometry.PageWidth - w) / 2,
			Y:      l.Geometry.FooterY,
			Text:   text,
			Font:   fontFooter,
			Color:  colorMuted,
			Footer: true,
		})
	}
	return nil
}

type engine struct {
	geo   Geometry
	m     Measurer
	pages []Page
	y     float64
}

func (e *engine) newPage() {
	e.pages = append(e.pages, Page{Number: len(e.pages) + 1})
	e.y = e.geo.MarginTop
}

func (e *engine) page() *Page {
	return &e.pages[len(e.pages)-1]
}

func (e *engine) remaining() float64 {
	return e.geo.Bottom() - e.y
}

// ensure breaks the page when a block of the given height would cross the
// bottom margin. A page whose cursor is still at the top margin is never broken.
func (e *engine) ensure(height float64) {
	if e.y+height <= e.geo.Bottom() {
		return
	}
	if e.y <= e.geo.MarginTop {
		return
	}
	e.newPage()
}

// ensureBlock breaks before a block that fits on a fresh page. Taller blocks
// start where they are and continue line by line.
func (e *engine) ensureBlock(height, minHeight float64) {
	if height <= e.geo.ContentHeight() {
		e.ensure(height)
		return
	}
	e.ensure(minHeight)
}

func (e *engine) add(op Op) {
	e.page().Ops = append(e.page().Ops, op)
}

// line places one line of text at the cursor and advances by the line height.
// A blank line at the top of a page is dropped.
func (e *engine) line(x float64, font Font, color scoring.RGB, text string) {
	e.ensure(font.LineHeight())
	if text == "" && e.y <= e.geo.MarginTop {
		return
	}
	if text != "" {
		e.add(Op{Kind: OpText, X: x, Y: e.y + font.ascent(), Text: text, Font: font, Color: color})
	}
	e.y += font.LineHeight()
}

func (e *engine) wrap(font Font, text string, width float64) ([]string, error) {
	lines, err := wrapText(e.m, font, text, width)
	if err != nil {
		return nil, fmt.Errorf("wrap text: %w", err)
	}
	return lines, nil
}

// paragraph wraps then places text, one line at a time.
func (e *engine) paragraph(x, width float64, font Font, color scoring.RGB, text string) error {
	lines, err := e.wrap(font, text, width)
	if err != nil {
		return err
	}
	for _, l := range lines {
		e.line(x, font, color, l)
	}
	return nil
}

func (e *engine) paragraphHeight(width float64, font Font, text string) (float64, error) {
	lines, err := e.wrap(font, text, width)
	if err != nil {
		return 0, err
	}
	return float64(len(lines)) * font.LineHeight(), nil
}

func (e *engine) heading(text string) {
	e.ensure(fontHeading.LineHeight() + headingSpacing + fontBody.LineHeight())
	e.line(e.geo.MarginLeft, fontHeading, colorHeading, text)
	e.y += headingSpacing
}

func (e *engine) rule() {
	e.ensure(2)
	e.add(Op{Kind: OpLine, X: e.geo.MarginLeft, Y: e.y, X2: e.geo.PageWidth - e.geo.MarginRight, Y2: e.y, Color: colorRule})
	e.y += 2
}

// bar draws a track plus a filled portion proportional to fraction.
func (e *engine) bar(fraction float64, color scoring.RGB) {
	e.ensure(barHeight)
	width := e.geo.UsableWidth()
	e.add(Op{Kind: OpRect, X: e.geo.MarginLeft, Y: e.y, W: width, H: barHeight, Color: colorTrack})
	if fraction > 0 {
		e.add(Op{Kind: OpRect, X: e.geo.MarginLeft, Y: e.y, W: width * fraction, H: barHeight, Color: color})
	}
	e.y += barHeight
}

func (e *engine) header(idea ideas.SubmittedIdea, result analysis.AnalysisResult) error {
	e.line(e.geo.MarginLeft, fontTitle, colorHeading, "Business Idea Analysis Report")
	e.y += headingSpacing
	if err := e.paragraph(e.geo.MarginLeft, e.geo.UsableWidth(), fontHeading, colorText, displayTitle(idea.Title)); err != nil {
		return err
	}
	meta := "Submitted " + formatTime(idea.SubmittedAt)
	if idea.InputKind != "" {
		meta += " | Input: " + string(idea.InputKind)
	}
	e.line(e.geo.MarginLeft, fontMeta, colorMuted, meta)

	band := idea.Band
	if !band.Valid() {
		band = ideas.BandFor(idea.Result)
	}
	chip := 4.0
	e.ensure(fontBody.LineHeight())
	e.add(Op{Kind: OpRect, X: e.geo.MarginLeft, Y: e.y + 0.5, W: chip, H: chip, Color: band.RGB()})
	e.add(Op{
		Kind:  OpText,
		X:     e.geo.MarginLeft + chip + 2,
		Y:     e.y + fontBody.ascent(),
		Text:  fmt.Sprintf("Traffic light: %s - %s", strings.ToUpper(string(band)), band.Label()),
		Font:  fontBody,
		Color: colorText,
	})
	e.y += fontBody.LineHeight() + blockPadding
	e.rule()
	e.y += sectionGap
	return nil
}

func (e *engine) overallScore(_ ideas.SubmittedIdea, result analysis.AnalysisResult) error {
	e.heading("Overall Score")
	if result.OverallScore == nil {
		msg := fmt.Sprintf("No AI score was returned for this submission. Traffic-light band: %s.", bandName(result.TrafficLightBand))
		if err := e.paragraph(e.geo.MarginLeft, e.geo.UsableWidth(), fontBody, colorMuted, msg); err != nil {
			return err
		}
	} else {
		score := *result.OverallScore
		b := scoring.Classify(score)
		e.ensure(fontScore.LineHeight() + barHeight + blockPadding)
		label := fmt.Sprintf("%d/100", score)
		e.add(Op{Kind: OpText, X: e.geo.MarginLeft, Y: e.y + fontScore.ascent(), Text: label, Font: fontScore, Color: b.RGB()})
		w, err := e.m.TextWidth(fontScore, label)
		if err != nil {
			return fmt.Errorf("measure score: %w", err)
		}
		e.add(Op{
			Kind:  OpText,
			X:     e.geo.MarginLeft + w + 4,
			Y:     e.y + fontScore.ascent(),
			Text:  b.Label(),
			Font:  fontSubheading,
			Color: colorText,
		})
		e.y += fontScore.LineHeight()
		e.bar(float64(score)/100, b.RGB())
		e.y += blockPadding
	}
	if strings.TrimSpace(result.DetailedFeedback) != "" {
		if err := e.paragraph(e.geo.MarginLeft, e.geo.UsableWidth(), fontBody, colorText, result.DetailedFeedback); err != nil {
			return err
		}
	}
	e.y += sectionGap
	return nil
}

func (e *engine) rubrics(_ ideas.SubmittedIdea, result analysis.AnalysisResult) error {
	e.heading("Scoring Rubrics")
	if len(result.Rubrics) == 0 {
		if err := e.paragraph(e.geo.MarginLeft, e.geo.UsableWidth(), fontBody, colorMuted, "No rubric scores were returned for this submission."); err != nil {
			return err
		}
		e.y += sectionGap
		return nil
	}
	width := e.geo.UsableWidth()
	for _, r := range result.Rubrics {
		fb, err := e.paragraphHeight(width, fontBody, r.Feedback)
		if err != nil {
			return err
		}
		scoreText := fmt.Sprintf("%d/%d", r.Score, r.MaxScore)
		sw, err := e.m.TextWidth(fontSubheading, scoreText)
		if err != nil {
			return fmt.Errorf("measure rubric score: %w", err)
		}
		names, err := e.wrap(fontSubheading, humanize(r.Name), width-sw-rubricScoreGap)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			names = []string{""}
		}
		head := float64(len(names))*fontSubheading.LineHeight() + barHeight + 1
		e.ensureBlock(head+fb+blockPadding, head+fontBody.LineHeight())

		e.add(Op{Kind: OpText, X: e.geo.PageWidth - e.geo.MarginRight - sw, Y: e.y + fontSubheading.ascent(), Text: scoreText, Font: fontSubheading, Color: r.Band().RGB()})
		for _, name := range names {
			if name != "" {
				e.add(Op{Kind: OpText, X: e.geo.MarginLeft, Y: e.y + fontSubheading.ascent(), Text: name, Font: fontSubheading, Color: colorHeading})
			}
			e.y += fontSubheading.LineHeight()
		}
		e.bar(r.Fraction(), r.Band().RGB())
		e.y++
		if err := e.paragraph(e.geo.MarginLeft, width, fontBody, colorText, r.Feedback); err != nil {
			return err
		}
		e.y += blockPadding
	}
	e.y += sectionGap
	return nil
}

func (e *engine) canvas(_ ideas.SubmittedIdea, result analysis.AnalysisResult) error {
	e.heading("Business Model Canvas")
	width := e.geo.UsableWidth()
	for _, entry := range result.BusinessCanvas.Entries() {
		body, err := e.paragraphHeight(width, fontBody, entry.Details)
		if err != nil {
			return err
		}
		head := fontSubheading.LineHeight()
		e.ensureBlock(head+body+blockPadding, head+fontBody.LineHeight())
		e.line(e.geo.MarginLeft, fontSubheading, colorHeading, entry.Title)
		if err := e.paragraph(e.geo.MarginLeft, width, fontBody, colorText, entry.Details); err != nil {
			return err
		}
		e.y += blockPadding
	}
	e.y += sectionGap
	return nil
}

type listSection struct {
	title string
	items []string
}

func (e *engine) detailedAnalysis(_ ideas.SubmittedIdea, result analysis.AnalysisResult) error {
	sections := []listSection{
		{title: "Strengths", items: result.Strengths},
		{title: "Areas for Improvement", items: result.Weaknesses},
		{title: "Recommended Actions", items: result.Improvements},
	}
	if len(result.Opportunities) > 0 {
		sections = append(sections, listSection{title: "Opportunities", items: result.Opportunities})
	}
	if len(result.Threats) > 0 {
		sections = append(sections, listSection{title: "Threats", items: result.Threats})
	}
	sections = append(sections, listSection{title: "Local Impact", items: []string{result.LocalImpact}})

	total := fontHeading.LineHeight() + headingSpacing
	textWidth := e.geo.UsableWidth() - bulletIndent
	for _, s := range sections {
		total += fontSubheading.LineHeight() + blockPadding
		for _, item := range s.items {
			h, err := e.paragraphHeight(textWidth, fontBody, item)
			if err != nil {
				return err
			}
			total += h
		}
	}
	first := fontHeading.LineHeight() + headingSpacing + fontSubheading.LineHeight() + fontBody.LineHeight()
	e.ensureBlock(total, first)

	e.heading("Detailed Analysis")
	for _, s := range sections {
		e.ensure(fontSubheading.LineHeight() + fontBody.LineHeight())
		e.line(e.geo.MarginLeft, fontSubheading, colorHeading, s.title)
		bulleted := len(s.items) > 1 || s.title != "Local Impact"
		for _, item := range s.items {
			if err := e.listItem(item, bulleted, textWidth); err != nil {
				return err
			}
		}
		e.y += blockPadding
	}
	return nil
}

// listItem places a wrapped item with a hanging indent.
func (e *engine) listItem(text string, bulleted bool, width float64) error {
	lines, err := e.wrap(fontBody, text, width)
	if err != nil {
		return err
	}
	for i, l := range lines {
		e.ensure(fontBody.LineHeight())
		if i == 0 && bulleted {
			e.add(Op{Kind: OpText, X: e.geo.MarginLeft + 1, Y: e.y + fontBody.ascent(), Text: "-", Font: fontBody, Color: colorText})
		}
		e.line(e.geo.MarginLeft+bulletIndent, fontBody, colorText, l)
	}
	return nil
}

func displayTitle(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return "Untitled idea"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "date unknown"
	}
	return t.UTC().Format("2 Jan 2006 15:04 UTC")
}

func bandName(b scoring.Band) string {
	if b == "" {
		return "Yellow"
	}
	s := string(b)
	return strings.ToUpper(s[:1]) + s[1:]
}

// humanize turns a rubric key such as "marketFit" or "market_fit" into "Market Fit".
func humanize(key string) string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	for i, r := range key {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && i > 0:
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	for i, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	if len(words) == 0 {
		return "Rubric"
	}
	return strings.Join(words, " ")
}
