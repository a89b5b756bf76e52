package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Bands(t *testing.T) {
	tests := []struct {
		name     string
		p, c     float64
		tod      TimeOfDay
		wantText string
		wantIcon string
	}{
		{"rainy", 0.8, 10, Day, LabelRainy, "wi-day-rain"},
		{"rainy night", 0.71, 10, Night, LabelRainy, "wi-night-rain"},
		{"boundary 0.7 is showers", 0.7, 0, Day, LabelShowers, "wi-day-showers"},
		{"showers", 0.5, 100, Night, LabelShowers, "wi-night-showers"},
		{"cloudy", 0.4, 81, Day, LabelCloudy, "wi-cloudy"},
		{"cloudy night keeps icon", 0.1, 90, Night, LabelCloudy, "wi-cloudy"},
		{"partly cloudy", 0, 80, Day, LabelPartlyCloudy, "wi-day-cloudy"},
		{"mostly sunny", 0, 50, Night, LabelMostlySunny, "wi-night-sunny-overcast"},
		{"sunny", 0, 20, Day, LabelSunny, "wi-day-sunny"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.p, tt.c, tt.tod)
			assert.Equal(t, tt.wantText, got.Label)
			assert.Equal(t, tt.wantIcon, got.IconKey)
		})
	}
}

var severity = map[string]int{
	LabelSunny: 0, LabelMostlySunny: 1, LabelPartlyCloudy: 2, LabelCloudy: 3, LabelShowers: 4, LabelRainy: 5,
}

func TestClassify_MonotonicAndTimeOfDayIndependent(t *testing.T) {
	for c := 0.0; c <= 100; c += 5 {
		prev := -1
		for p := 0.0; p <= 1.0001; p += 0.05 {
			day := Classify(p, c, Day)
			night := Classify(p, c, Night)
			assert.Equal(t, day.Label, night.Label)
			assert.Equal(t, day, Classify(p, c, Day), "pure")

			s := severity[day.Label]
			assert.GreaterOrEqual(t, s, prev, "p=%.2f c=%.0f", p, c)
			prev = s
		}
	}
	for p := 0.0; p <= 1.0001; p += 0.1 {
		prev := -1
		for c := 0.0; c <= 100; c += 2 {
			s := severity[Classify(p, c, Day).Label]
			assert.GreaterOrEqual(t, s, prev, "p=%.2f c=%.0f", p, c)
			prev = s
		}
	}
}

func TestTimeOfDayAt(t *testing.T) {
	var s Snapshot
	s.AtmosphericConditions.Solar.Sunrise = "2025-10-06T06:48"
	s.AtmosphericConditions.Solar.Sunset = "2025-10-06T19:27"

	at := func(h, m int) time.Time { return time.Date(2025, 10, 6, h, m, 0, 0, time.UTC) }
	assert.Equal(t, Night, TimeOfDayAt(s, at(6, 47)))
	assert.Equal(t, Day, TimeOfDayAt(s, at(6, 48)))
	assert.Equal(t, Day, TimeOfDayAt(s, at(19, 26)))
	assert.Equal(t, Night, TimeOfDayAt(s, at(19, 27)))

	s.AtmosphericConditions.Solar.Sunset = "garbage"
	assert.Equal(t, Day, TimeOfDayAt(s, at(23, 0)))
}

func TestParseTimeOfDay(t *testing.T) {
	tod, ok := ParseTimeOfDay(" Night ")
	assert.True(t, ok)
	assert.Equal(t, Night, tod)

	tod, ok = ParseTimeOfDay("dusk")
	assert.False(t, ok)
	assert.Equal(t, Day, tod)
}
