package scoring

const (
	greenThresholdPct  = 75
	yellowThresholdPct = 35
)

// Classify maps an overall score on the 0-100 scale to a band.
func Classify(score int) Band {
	switch {
	case score >= greenThresholdPct:
		return BandGreen
	case score >= yellowThresholdPct:
		return BandYellow
	default:
		return BandRed
	}
}

// ClassifyRubric applies the same 75%/35% breakpoints scaled to maxScore.
// Integer arithmetic keeps the boundaries exact: out of 25, 19 is green and 9 is yellow.
func ClassifyRubric(score, maxScore int) Band {
	if maxScore <= 0 {
		return Classify(score)
	}
	scaled := score * 100
	switch {
	case scaled >= greenThresholdPct*maxScore:
		return BandGreen
	case scaled >= yellowThresholdPct*maxScore:
		return BandYellow
	default:
		return BandRed
	}
}

// Worse reports whether a ranks strictly below b.
func Worse(a, b Band) bool {
	return a.rank() < b.rank()
}

// Trend is the direction of an emerging-trend indicator.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFlat    Trend = "flat"
	TrendFalling Trend = "falling"
)

// ClassifyTrend maps a growth percentage to a trend direction.
func ClassifyTrend(growthPercent float64) Trend {
	switch {
	case growthPercent > 20:
		return TrendRising
	case growthPercent < -10:
		return TrendFalling
	default:
		return TrendFlat
	}
}

// GrowthPercent returns the relative change from previous to current in percent.
// A rise from zero counts as 100% growth; zero to zero is flat.
func GrowthPercent(previous, current int) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-previous) / float64(previous) * 100
}
