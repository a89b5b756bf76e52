package weather

import "fmt"

// Precipitation types.
const (
	PrecipRain         = "rain"
	PrecipSnow         = "snow"
	PrecipFreezingRain = "freezing_rain"
	PrecipHail         = "hail"
	PrecipNone         = "none"
)

// Pressure trends.
const (
	TrendSteady  = "steady"
	TrendRising  = "rising"
	TrendFalling = "falling"
)

// Lightning risk levels.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Coordinates identifies a point on the globe in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Key returns a canonical string key for indexing these coordinates in stores.
// Points closer than the provider grid share a key.
func (c Coordinates) Key() string {
	return fmt.Sprintf("%.2f:%.2f", c.Latitude, c.Longitude)
}

// Location is the place a snapshot describes.
type Location struct {
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	PlaceName         string  `json:"place_name"`
	GridResolutionDeg float64 `json:"grid_resolution_deg"`
}

// Snapshot is the canonical, fully populated weather view for one location and date.
// It is produced fresh per query and never mutated afterwards.
type Snapshot struct {
	Location              Location              `json:"location"`
	Date                  string                `json:"date"`
	AtmosphericConditions AtmosphericConditions `json:"atmospheric_conditions"`
	ForecastSummary       string                `json:"forecast_summary"`
	ModelOutput           ModelOutput           `json:"model_output"`
}

type AtmosphericConditions struct {
	Precipitation Precipitation `json:"precipitation"`
	Temperature   Temperature   `json:"temperature"`
	Humidity      Humidity      `json:"humidity"`
	Wind          Wind          `json:"wind"`
	Clouds        Clouds        `json:"clouds"`
	Solar         Solar         `json:"solar"`
	Pressure      Pressure      `json:"pressure"`
	Lightning     Lightning     `json:"lightning"`
	AirQuality    AirQuality    `json:"air_quality"`
}

type Precipitation struct {
	Probability   float64 `json:"probability"` // 0..1
	Type          string  `json:"type"`
	IntensityMMHr float64 `json:"intensity_mm_hr"`
}

type Temperature struct {
	SurfaceCelsius  float64 `json:"surface_celsius"`
	DewPointCelsius float64 `json:"dew_point_celsius"`
	MinCelsius      float64 `json:"min_celsius"`
	MaxCelsius      float64 `json:"max_celsius"`
}

type Humidity struct {
	RelativePercent float64 `json:"relative_percent"`
}

type Wind struct {
	SpeedMS      float64 `json:"speed_m_s"`
	DirectionDeg float64 `json:"direction_deg"`
	GustsMS      float64 `json:"gusts_m_s"`
}

type Clouds struct {
	CoveragePercent float64 `json:"coverage_percent"`
	Type            string  `json:"type"`
	OpticalDepth    float64 `json:"optical_depth"`
}

type Solar struct {
	IrradianceWM2 float64 `json:"irradiance_w_m2"`
	Sunrise       string  `json:"sunrise"`
	Sunset        string  `json:"sunset"`
}

type Pressure struct {
	SurfaceHPa float64 `json:"surface_hpa"`
	Trend      string  `json:"trend"`
}

type Lightning struct {
	RiskLevel string `json:"risk_level"`
}

type AirQuality struct {
	AerosolOpticalDepth float64 `json:"aerosol_optical_depth"`
}

type ModelOutput struct {
	RainForecastIndex float64 `json:"rain_forecast_index"`
	ConfidenceScore   float64 `json:"confidence_score"`
}

// WeeklySequence holds up to seven daily snapshots ordered by ascending date,
// with no two entries sharing a date.
type WeeklySequence []Snapshot

// ByDate returns the entry for the given ISO date.
func (w WeeklySequence) ByDate(date string) (Snapshot, bool) {
	for _, s := range w {
		if s.Date == date {
			return s, true
		}
	}
	return Snapshot{}, false
}
