package weather

import (
	"math"

	"github.com/i474232898/raincheck/internal/common"
)

// WMO weather interpretation codes as used by Open-Meteo.
var conditionDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Light rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Light snowfall",
	73: "Moderate snowfall",
	75: "Heavy snowfall",
	77: "Snow grains",
	80: "Light rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Light snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with light hail",
	99: "Thunderstorm with heavy hail",
}

const unknownConditions = "Unknown conditions"

// Cloud types.
const (
	CloudClear        = "clear"
	CloudCumulus      = "cumulus"
	CloudStratus      = "stratus"
	CloudNimbostratus = "nimbostratus"
	CloudCumulonimbus = "cumulonimbus"
)

// ConditionDescription returns the human readable text for a WMO code.
func ConditionDescription(code int) string {
	if d, ok := conditionDescriptions[code]; ok {
		return d
	}
	return unknownConditions
}

// CloudType maps a WMO code to a cloud type, checking the highest band first.
func CloudType(code int) string {
	switch {
	case code >= 95:
		return CloudCumulonimbus
	case code >= 80:
		return CloudCumulus
	case code >= 61:
		return CloudNimbostratus
	case code >= 45:
		return CloudStratus
	case code >= 2:
		return CloudCumulus
	default:
		return CloudClear
	}
}

// EstimateCloudCoverage returns a coverage percentage implied by a WMO code.
func EstimateCloudCoverage(code int) float64 {
	switch {
	case code == 0:
		return 0
	case code == 1:
		return 25
	case code == 2:
		return 50
	case code == 3:
		return 85
	case code >= 45 && code <= 48:
		return 100
	case code >= 51:
		return 90
	default:
		return 50
	}
}

// HumidityForCode returns the relative humidity implied by a known WMO code.
func HumidityForCode(code int) (float64, bool) {
	switch {
	case code >= 51 && code <= 67:
		return 85, true
	case code >= 71 && code <= 77:
		return 90, true
	case code >= 80 && code <= 86:
		return 80, true
	case code >= 95 && code <= 99:
		return 90, true
	case code == 45 || code == 48:
		return 95, true
	case code == 3:
		return 70, true
	case code == 2:
		return 60, true
	case code == 1:
		return 50, true
	case code == 0:
		return 45, true
	}
	return 0, false
}

// HumidityForPrecipitation estimates relative humidity from a precipitation amount in mm.
func HumidityForPrecipitation(mm float64) float64 {
	switch {
	case mm > 5:
		return 85
	case mm > 1:
		return 70
	case mm > 0:
		return 60
	default:
		return 55
	}
}

// EstimateHumidity derives relative humidity from whatever is known: the code
// first, then the precipitation amount, else 50.
func EstimateHumidity(code, precipMM NullFloat) float64 {
	if c, ok := wmoCode(code); ok {
		if h, ok := HumidityForCode(c); ok {
			return h
		}
	}
	if mm, ok := precipMM.Within(0, math.MaxFloat64); ok {
		return HumidityForPrecipitation(mm)
	}
	return 50
}

// IsThunderstorm reports whether a code denotes a thunderstorm.
func IsThunderstorm(code int) bool {
	return code >= 95 && code <= 99
}

// ProbabilityFromRate derives a precipitation probability from a rate in mm/h.
func ProbabilityFromRate(rateMMPerHour float64) float64 {
	if rateMMPerHour <= 0 {
		return 0
	}
	return math.Min(rateMMPerHour/2.0, 1)
}

// PrecipitationType classifies precipitation from the code, falling back to the
// measured intensity when no code is known.
func PrecipitationType(code int, hasCode bool, intensity float64) string {
	if hasCode {
		switch {
		case code == 96 || code == 99:
			return PrecipHail
		case code == 56 || code == 57 || code == 66 || code == 67:
			return PrecipFreezingRain
		case (code >= 71 && code <= 77) || code == 85 || code == 86:
			return PrecipSnow
		case (code >= 51 && code <= 65) || (code >= 80 && code <= 82) || code == 95:
			return PrecipRain
		}
	}
	if intensity > 0 {
		return PrecipRain
	}
	return PrecipNone
}

// LightningRisk grades lightning from the code and the precipitation probability.
func LightningRisk(code int, hasCode bool, probability float64) string {
	if hasCode && IsThunderstorm(code) {
		return RiskHigh
	}
	if (hasCode && code >= 80 && code <= 82) || probability > 0.6 {
		return RiskMedium
	}
	return RiskLow
}

var opticalDepthFactor = map[string]float64{
	CloudClear:        0,
	CloudCumulus:      10,
	CloudStratus:      8,
	CloudNimbostratus: 30,
	CloudCumulonimbus: 50,
}

// OpticalDepth approximates cloud optical depth from type and coverage.
func OpticalDepth(cloudType string, coveragePercent float64) float64 {
	f := opticalDepthFactor[cloudType]
	return common.Round(f*common.Clamp(coveragePercent, 0, 100)/100, 2)
}

// DewPoint uses the Magnus approximation.
func DewPoint(tempC, relativePercent float64) float64 {
	const a, b = 17.27, 237.7
	rh := common.Clamp(relativePercent, 1, 100)
	gamma := a*tempC/(b+tempC) + math.Log(rh/100)
	return common.Round(b*gamma/(a-gamma), 1)
}

// Clear-sky reference irradiance in W/m2.
const (
	ClearSkyPeak      = 1000.0
	ClearSkyDailyMean = 250.0
)

// EstimateIrradiance applies the Kasten-Czeplak cloud attenuation to a clear-sky value.
func EstimateIrradiance(coveragePercent, clearSky float64) float64 {
	n := common.Clamp(coveragePercent, 0, 100) / 100
	return common.Round(clearSky*(1-0.75*math.Pow(n, 3.4)), 1)
}

// wmoCode converts an upstream code to an int, rejecting anything outside 0..99.
func wmoCode(v NullFloat) (int, bool) {
	f, ok := v.Within(0, 99)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
