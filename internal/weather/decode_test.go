package weather

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacySnapshot = `{
  "location": {"latitude": -34.75, "longitude": -56.04, "place_name": "Canelones, Uruguay", "grid_resolution_deg": 0.25},
  "date": "2025-10-06",
  "atmospheric_conditions": {
    "precipitation": {"probability": 65, "type": "rain", "intensity_mm_hr": 0.4},
    "temperature": {"surface_celsius": 18.4, "dew_point_celsius": 13.2, "min_celsius": 12.3, "max_celsius": 20.1},
    "humidity": {"relative_percent": 72},
    "wind": {"speed_m_s": 5, "direction_degrees": 135, "gust_m_s": 10},
    "clouds": {"coverage_percent": 88, "type": "nimbostratus", "optical_depth": 26.4},
    "solar": {"irradiance_w_m2": 210.5, "sunrise_utc": "2025-10-06T09:48", "sunset_utc": "2025-10-06T22:27"},
    "pressure": {"surface_hpa": 1012.8, "trend": "steady"},
    "lightning": {"risk": "medium"},
    "air_quality": {"aod": 0.2}
  },
  "forecast_summary": "Light rain",
  "model_output": {"rain_forecast_index": 0.65, "confidence": 0.8}
}`

func TestDecodeSnapshot_LegacyAliases(t *testing.T) {
	s, err := DecodeSnapshot([]byte(legacySnapshot))
	require.NoError(t, err)

	ac := s.AtmosphericConditions
	assert.InDelta(t, 0.65, ac.Precipitation.Probability, 1e-9)
	assert.Equal(t, 10.0, ac.Wind.GustsMS)
	assert.Equal(t, 135.0, ac.Wind.DirectionDeg)
	assert.Equal(t, "2025-10-06T09:48", ac.Solar.Sunrise)
	assert.Equal(t, "2025-10-06T22:27", ac.Solar.Sunset)
	assert.Equal(t, RiskMedium, ac.Lightning.RiskLevel)
	assert.Equal(t, 0.2, ac.AirQuality.AerosolOpticalDepth)
	assert.Equal(t, 0.8, s.ModelOutput.ConfidenceScore)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	for _, legacy := range []string{"gust_m_s", "direction_degrees", "sunrise_utc", "sunset_utc", `"risk"`, `"aod"`, `"confidence"`} {
		assert.NotContains(t, string(out), legacy)
	}
}

func TestDecodeSnapshot_CanonicalWins(t *testing.T) {
	body := `{"atmospheric_conditions":{"wind":{"gusts_m_s":7,"gust_m_s":9},"air_quality":{"aerosol_optical_depth":0,"aod":0.3}},
		"model_output":{"confidence_score":0.5,"confidence":0.9}}`
	s, err := DecodeSnapshot([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, 7.0, s.AtmosphericConditions.Wind.GustsMS)
	assert.Equal(t, 0.0, s.AtmosphericConditions.AirQuality.AerosolOpticalDepth)
	assert.Equal(t, 0.5, s.ModelOutput.ConfidenceScore)
}

func TestDecodeSnapshot_RoundTripIsStable(t *testing.T) {
	s, err := fixedBuilder().Snapshot(canelones, decode(t, currentJSON))
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	back, err := DecodeSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, s, back, "canonical probabilities are not rescaled twice")
}
