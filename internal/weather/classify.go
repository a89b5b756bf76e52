package weather

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay selects the day or night icon variant.
type TimeOfDay string

const (
	Day   TimeOfDay = "day"
	Night TimeOfDay = "night"
)

// ParseTimeOfDay accepts "day" or "night"; anything else is reported as invalid.
func ParseTimeOfDay(s string) (TimeOfDay, bool) {
	switch TimeOfDay(strings.ToLower(strings.TrimSpace(s))) {
	case Day:
		return Day, true
	case Night:
		return Night, true
	}
	return Day, false
}

// Condition labels.
const (
	LabelRainy        = "Rainy"
	LabelShowers      = "Showers"
	LabelCloudy       = "Cloudy"
	LabelPartlyCloudy = "Partly Cloudy"
	LabelMostlySunny  = "Mostly Sunny"
	LabelSunny        = "Sunny"
)

// Condition is a display label plus an icon key.
type Condition struct {
	Label   string `json:"label"`
	IconKey string `json:"icon_key"`
}

// Classify maps probability (0..1) and coverage (0..100) to a display condition.
// The first matching band wins; time of day only changes the icon.
func Classify(probability, coverage float64, tod TimeOfDay) Condition {
	if tod != Night {
		tod = Day
	}
	switch {
	case probability > 0.7:
		return Condition{LabelRainy, fmt.Sprintf("wi-%s-rain", tod)}
	case probability > 0.4:
		return Condition{LabelShowers, fmt.Sprintf("wi-%s-showers", tod)}
	case coverage > 80:
		return Condition{LabelCloudy, "wi-cloudy"}
	case coverage > 50:
		return Condition{LabelPartlyCloudy, fmt.Sprintf("wi-%s-cloudy", tod)}
	case coverage > 20:
		return Condition{LabelMostlySunny, fmt.Sprintf("wi-%s-sunny-overcast", tod)}
	default:
		return Condition{LabelSunny, fmt.Sprintf("wi-%s-sunny", tod)}
	}
}

// ClassifySnapshot classifies a snapshot's precipitation probability and cloud coverage.
func ClassifySnapshot(s Snapshot, tod TimeOfDay) Condition {
	ac := s.AtmosphericConditions
	return Classify(ac.Precipitation.Probability, ac.Clouds.CoveragePercent, tod)
}

var solarLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339}

// TimeOfDayAt reports night when the wall-clock time falls outside
// [sunrise, sunset) of the snapshot. Unparseable solar times count as day.
func TimeOfDayAt(s Snapshot, at time.Time) TimeOfDay {
	rise, ok1 := parseSolar(s.AtmosphericConditions.Solar.Sunrise)
	set, ok2 := parseSolar(s.AtmosphericConditions.Solar.Sunset)
	if !ok1 || !ok2 {
		return Day
	}
	m := at.Hour()*60 + at.Minute()
	if m < rise || m >= set {
		return Night
	}
	return Day
}

// parseSolar returns minutes since midnight of a local ISO timestamp.
func parseSolar(v string) (int, bool) {
	for _, layout := range solarLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}
