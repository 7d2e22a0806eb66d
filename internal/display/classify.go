package display

// Severity is the attainment classification tier of a metric.
type Severity string

const (
	// OnTrack means attainment is at or above 100 percent of target.
	OnTrack Severity = "on_track"

	// AtRisk means attainment is at or above 80 but below 100 percent.
	AtRisk Severity = "at_risk"

	// Behind means attainment is below 80 percent of target.
	Behind Severity = "behind"
)

// Display color tokens, one per severity tier.
const (
	ColorOnTrack = "#28a745"
	ColorAtRisk  = "#ffc107"
	ColorBehind  = "#dc3545"
)

// Classify buckets an attainment percentage into a severity tier.
//
// The function is total over all float64 values: +Inf classifies as OnTrack,
// NaN fails both threshold checks and classifies as Behind. Callers that
// consider NaN invalid must reject it before classifying.
func Classify(attainment float64) Severity {
	switch {
	case attainment >= 100:
		return OnTrack
	case attainment >= 80:
		return AtRisk
	default:
		return Behind
	}
}

// Color returns the fixed display color token for the severity.
func (s Severity) Color() string {
	switch s {
	case OnTrack:
		return ColorOnTrack
	case AtRisk:
		return ColorAtRisk
	default:
		return ColorBehind
	}
}

// BarWidth clamps an attainment percentage to the closed range [0, 100] for
// progress bar rendering. Only the bar is capped; the attainment number used
// for display text keeps its real value.
func BarWidth(attainment float64) float64 {
	switch {
	case attainment > 100:
		return 100
	case attainment < 0:
		return 0
	default:
		return attainment
	}
}
