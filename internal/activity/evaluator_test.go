package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/raincheck/internal/weather"
)

type conditions struct {
	precip, wind, temp, cloud, humidity float64
}

func snap(c conditions) weather.Snapshot {
	var s weather.Snapshot
	s.AtmosphericConditions.Precipitation.Probability = c.precip
	s.AtmosphericConditions.Wind.SpeedMS = c.wind
	s.AtmosphericConditions.Temperature.SurfaceCelsius = c.temp
	s.AtmosphericConditions.Clouds.CoveragePercent = c.cloud
	s.AtmosphericConditions.Humidity.RelativePercent = c.humidity
	return s
}

func TestEvaluate_StargazingFirstFailingGuardWins(t *testing.T) {
	v := Evaluate(snap(conditions{precip: 0.3, cloud: 90}), "stargazing")

	assert.False(t, v.Viable)
	assert.Equal(t, "wi-rain", v.IconKey)
	assert.Contains(t, v.RecommendationText, "Rain")
}

func TestEvaluate_StargazingClouds(t *testing.T) {
	v := Evaluate(snap(conditions{precip: 0.1, cloud: 25}), "stargazing")
	assert.False(t, v.Viable)
	assert.Equal(t, "wi-cloudy", v.IconKey)

	v = Evaluate(snap(conditions{precip: 0.1, cloud: 10}), "stargazing")
	assert.True(t, v.Viable)
	assert.Equal(t, "wi-stars", v.IconKey)
}

func TestEvaluate_SailingWindBands(t *testing.T) {
	tests := []struct {
		wind     float64
		viable   bool
		contains string
	}{
		{2, false, "Not enough wind"},
		{25, false, "Dangerous wind speeds"},
		{5, true, "Gentle wind"},
		{15, true, "experienced sailors"},
	}
	for _, tt := range tests {
		v := Evaluate(snap(conditions{precip: 0.1, wind: tt.wind}), "sailing")
		assert.Equal(t, tt.viable, v.Viable, "wind %.0f", tt.wind)
		assert.Contains(t, v.RecommendationText, tt.contains, "wind %.0f", tt.wind)
	}
}

func TestEvaluate_UnknownActivityUsesDefaultRule(t *testing.T) {
	v := Evaluate(snap(conditions{precip: 0.6}), "kite-flying")
	assert.False(t, v.Viable)
	assert.Equal(t, "kite-flying", v.ActivityID)
	assert.Equal(t, "wi-rain", v.IconKey)

	v = Evaluate(snap(conditions{precip: 0.1, wind: 12}), "Kite Flying")
	assert.False(t, v.Viable)
	assert.Equal(t, "wi-strong-wind", v.IconKey)

	v = Evaluate(snap(conditions{precip: 0.1, wind: 3}), "kite_flying")
	assert.True(t, v.Viable)
}

func TestEvaluate_ThresholdsAreStrict(t *testing.T) {
	// precip must be strictly below 0.3 for running.
	v := Evaluate(snap(conditions{precip: 0.3, temp: 20}), "running")
	assert.False(t, v.Viable)

	v = Evaluate(snap(conditions{precip: 0.29, temp: 20}), "running")
	assert.True(t, v.Viable)
	assert.Equal(t, "Great conditions for running.", v.RecommendationText)

	v = Evaluate(snap(conditions{temp: 28}), "running")
	assert.True(t, v.Viable)
	assert.Contains(t, v.RecommendationText, "hydrated")

	v = Evaluate(snap(conditions{temp: 5}), "cycling")
	assert.False(t, v.Viable)
	assert.Equal(t, "wi-snowflake-cold", v.IconKey)

	v = Evaluate(snap(conditions{temp: 32}), "hiking")
	assert.False(t, v.Viable)
	assert.Equal(t, "wi-hot", v.IconKey)
}

func TestEvaluate_PhotographyFinalGuard(t *testing.T) {
	v := Evaluate(snap(conditions{cloud: 60, precip: 0.1}), "photography")
	assert.True(t, v.Viable)
	assert.Contains(t, v.RecommendationText, "Ideal light")

	v = Evaluate(snap(conditions{cloud: 10}), "photography")
	assert.True(t, v.Viable)
	assert.Contains(t, v.RecommendationText, "Clear skies")

	v = Evaluate(snap(conditions{cloud: 95}), "photography")
	assert.True(t, v.Viable)
	assert.Contains(t, v.RecommendationText, "Overcast")

	v = Evaluate(snap(conditions{cloud: 60, precip: 0.5}), "photography")
	assert.False(t, v.Viable)
	assert.Equal(t, "wi-rain", v.IconKey)

	v = Evaluate(snap(conditions{cloud: 60, wind: 13, precip: 0.5}), "photography")
	assert.Equal(t, "wi-strong-wind", v.IconKey, "leading guards run before the final guard")
}

func TestEvaluate_BranchSelection(t *testing.T) {
	v := Evaluate(snap(conditions{precip: 0.3, temp: 20}), "gardening")
	assert.True(t, v.Viable)
	assert.Contains(t, v.RecommendationText, "Light rain")

	v = Evaluate(snap(conditions{precip: 0.1, temp: 20}), "gardening")
	assert.Equal(t, "Good day for gardening.", v.RecommendationText)

	v = Evaluate(snap(conditions{cloud: 70}), "fishing")
	assert.Contains(t, v.RecommendationText, "Overcast")
}

func TestEvaluate_PaintingHumidity(t *testing.T) {
	v := Evaluate(snap(conditions{temp: 20, humidity: 85}), "painting")
	assert.False(t, v.Viable)
	assert.Equal(t, "wi-humidity", v.IconKey)
}

func TestNormalizeID_Aliases(t *testing.T) {
	tests := map[string]string{
		"Birdwatching":  "bird-watching",
		" carwash ":     "car-wash",
		"eatout":        "eat-out",
		"Barbecue":      "bbq",
		"moto":          "motorcycle",
		"stars":         "stargazing",
		"Bird_Watching": "bird-watching",
		"eat out":       "eat-out",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeID(in), in)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	s := snap(conditions{precip: 0.2, wind: 6, temp: 18, cloud: 45, humidity: 60})
	for _, a := range Catalog() {
		assert.Equal(t, Evaluate(s, a.ID), Evaluate(s, a.ID), a.ID)
	}
}

func TestCatalogAndEvaluateAll(t *testing.T) {
	cat := Catalog()
	require.NotEmpty(t, cat)
	assert.Equal(t, "stargazing", cat[0].ID)

	seen := map[string]bool{}
	for _, a := range cat {
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
		assert.True(t, Known(a.ID))
	}

	got := EvaluateAll(snap(conditions{precip: 0.05, wind: 5, temp: 22, cloud: 10, humidity: 50}), []string{"beach", "moto", "unknown"})
	require.Len(t, got, 3)
	assert.Equal(t, "beach", got[0].ActivityID)
	assert.True(t, got[0].Viable)
	assert.Equal(t, "motorcycle", got[1].ActivityID)
	assert.True(t, got[1].Viable)
	assert.Equal(t, "unknown", got[2].ActivityID)
	assert.True(t, got[2].Viable)
}
