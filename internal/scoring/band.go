package scoring

import "strings"

// Band is the traffic-light classification shared by overall and rubric scores.
type Band string

const (
	BandGreen  Band = "green"
	BandYellow Band = "yellow"
	BandRed    Band = "red"
)

// Level is the qualitative label attached to a band.
type Level string

const (
	LevelExcellent        Level = "Excellent"
	LevelGood             Level = "Good"
	LevelNeedsDevelopment Level = "NeedsDevelopment"
)

// RGB is an 8-bit colour triple.
type RGB struct {
	R, G, B int
}

var bandColors = map[Band]RGB{
	BandGreen:  {R: 34, G: 197, B: 94},
	BandYellow: {R: 234, G: 179, B: 8},
	BandRed:    {R: 239, G: 68, B: 68},
}

// ParseBand lowercases and validates raw. ok is false for anything outside green/yellow/red.
func ParseBand(raw string) (Band, bool) {
	switch Band(strings.ToLower(strings.TrimSpace(raw))) {
	case BandGreen:
		return BandGreen, true
	case BandYellow:
		return BandYellow, true
	case BandRed:
		return BandRed, true
	default:
		return "", false
	}
}

// Valid reports whether b is one of the three bands.
func (b Band) Valid() bool {
	_, ok := bandColors[b]
	return ok
}

// RGB returns the fixed fill colour for the band. Unknown bands use yellow.
func (b Band) RGB() RGB {
	if c, ok := bandColors[b]; ok {
		return c
	}
	return bandColors[BandYellow]
}

// Level maps the band to its qualitative level.
func (b Band) Level() Level {
	switch b {
	case BandGreen:
		return LevelExcellent
	case BandRed:
		return LevelNeedsDevelopment
	default:
		return LevelGood
	}
}

// Label is the human readable band description used in reports and views.
func (b Band) Label() string {
	switch b {
	case BandGreen:
		return "Excellent (75-100)"
	case BandRed:
		return "Needs Development (0-34)"
	default:
		return "Good (35-74)"
	}
}

// rank orders bands from worst to best.
func (b Band) rank() int {
	switch b {
	case BandGreen:
		return 2
	case BandYellow:
		return 1
	default:
		return 0
	}
}
