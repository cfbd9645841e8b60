package report

import (
	"fmt"
	"strings"
)

// Measurer reports the rendered width of text in millimetres.
type Measurer interface {
	TextWidth(font Font, text string) (float64, error)
}

// wrapText splits text into lines no wider than width. Explicit newlines are
// kept but a run of blank lines collapses to one. Words are never split unless
// a single word is wider than the column.
func wrapText(m Measurer, font Font, text string, width float64) ([]string, error) {
	if width <= 0 {
		return nil, fmt.Errorf("wrap: non-positive width %.2f", width)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			if len(lines) > 0 && lines[len(lines)-1] != "" {
				lines = append(lines, "")
			}
			continue
		}
		cur := ""
		for _, w := range words {
			candidate := w
			if cur != "" {
				candidate = cur + " " + w
			}
			cw, err := m.TextWidth(font, candidate)
			if err != nil {
				return nil, err
			}
			if cw <= width {
				cur = candidate
				continue
			}
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			ww, err := m.TextWidth(font, w)
			if err != nil {
				return nil, err
			}
			if ww <= width {
				cur = w
				continue
			}
			pieces, err := breakWord(m, font, w, width)
			if err != nil {
				return nil, err
			}
			lines = append(lines, pieces[:len(pieces)-1]...)
			cur = pieces[len(pieces)-1]
		}
		if cur != "" {
			lines = append(lines, cur)
		}
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return lines, nil
}

// breakWord hard-wraps a single over-long word. Each piece holds at least one rune.
func breakWord(m Measurer, font Font, word string, width float64) ([]string, error) {
	var pieces []string
	var cur []rune
	for _, r := range word {
		next := append(cur, r)
		w, err := m.TextWidth(font, string(next))
		if err != nil {
			return nil, err
		}
		if w > width && len(cur) > 0 {
			pieces = append(pieces, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	if len(cur) > 0 {
		pieces = append(pieces, string(cur))
	}
	return pieces, nil
}
