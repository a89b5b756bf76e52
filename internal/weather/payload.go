package weather

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// NullFloat is a float that may be absent upstream. JSON null, numbers and
// numeric strings decode; anything else decodes as absent instead of failing.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a present NullFloat.
func Float(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

func (n *NullFloat) UnmarshalJSON(data []byte) error {
	*n = NullFloat{}
	s := string(bytes.TrimSpace(data))
	if s == "" || s == "null" {
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.Float64, n.Valid = f, true
	return nil
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// Within returns the value when it is present and inside [lo, hi].
func (n NullFloat) Within(lo, hi float64) (float64, bool) {
	if !n.Valid || n.Float64 < lo || n.Float64 > hi {
		return 0, false
	}
	return n.Float64, true
}

// Scale multiplies a present value by f.
func (n NullFloat) Scale(f float64) NullFloat {
	if !n.Valid {
		return n
	}
	return Float(n.Float64 * f)
}

// Or returns n if present, else other.
func (n NullFloat) Or(other NullFloat) NullFloat {
	if n.Valid {
		return n
	}
	return other
}

// NullString is a string that may be absent upstream. Non-string JSON values
// and blank strings decode as absent.
type NullString struct {
	String string
	Valid  bool
}

// Str returns a present NullString.
func Str(v string) NullString {
	return NullString{String: v, Valid: true}
}

func (n *NullString) UnmarshalJSON(data []byte) error {
	*n = NullString{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n.String, n.Valid = s, true
	return nil
}

func (n NullString) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.String)
}

// Or returns n if present, else other.
func (n NullString) Or(other NullString) NullString {
	if n.Valid {
		return n
	}
	return other
}

// FloatSeries is a daily array of optional floats. A non-array value decodes as empty.
type FloatSeries []NullFloat

func (s *FloatSeries) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = nil
		return nil
	}
	out := make(FloatSeries, len(raw))
	for i, r := range raw {
		_ = out[i].UnmarshalJSON(r)
	}
	*s = out
	return nil
}

// At returns entry i, absent when out of bounds.
func (s FloatSeries) At(i int) NullFloat {
	if i < 0 || i >= len(s) {
		return NullFloat{}
	}
	return s[i]
}

// StringSeries is a daily array of optional strings. A non-array value decodes as empty.
type StringSeries []NullString

func (s *StringSeries) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = nil
		return nil
	}
	out := make(StringSeries, len(raw))
	for i, r := range raw {
		_ = out[i].UnmarshalJSON(r)
	}
	*s = out
	return nil
}

// At returns entry i, absent when out of bounds.
func (s StringSeries) At(i int) NullString {
	if i < 0 || i >= len(s) {
		return NullString{}
	}
	return s[i]
}

// Payload is the raw provider response with every field optional.
// Field names follow the Open-Meteo forecast API.
type Payload struct {
	Latitude     NullFloat         `json:"latitude"`
	Longitude    NullFloat         `json:"longitude"`
	Timezone     NullString        `json:"timezone"`
	UTCOffset    NullFloat         `json:"utc_offset_seconds"`
	Current      *CurrentSection   `json:"current,omitempty"`
	CurrentUnits map[string]string `json:"current_units,omitempty"`
	Daily        *DailySection     `json:"daily,omitempty"`
	DailyUnits   map[string]string `json:"daily_units,omitempty"`
}

// Zone returns the location's time zone: the named zone when it loads, else
// the reported UTC offset, else UTC. Local times in the payload use this zone.
func (p *Payload) Zone() *time.Location {
	if p.Timezone.Valid {
		if loc, err := time.LoadLocation(p.Timezone.String); err == nil {
			return loc
		}
	}
	if off, ok := p.UTCOffset.Within(-14*3600, 14*3600); ok {
		return time.FixedZone("", int(off))
	}
	return time.UTC
}

// CurrentSection holds instantaneous readings.
type CurrentSection struct {
	Time                NullString `json:"time"`
	Temperature2m       NullFloat  `json:"temperature_2m"`
	RelativeHumidity2m  NullFloat  `json:"relative_humidity_2m"`
	ApparentTemperature NullFloat  `json:"apparent_temperature"`
	IsDay               NullFloat  `json:"is_day"`
	Precipitation       NullFloat  `json:"precipitation"`
	WeatherCode         NullFloat  `json:"weather_code"`
	CloudCover          NullFloat  `json:"cloud_cover"`
	PressureMSL         NullFloat  `json:"pressure_msl"`
	SurfacePressure     NullFloat  `json:"surface_pressure"`
	WindSpeed10m        NullFloat  `json:"wind_speed_10m"`
	WindDirection10m    NullFloat  `json:"wind_direction_10m"`
	WindGusts10m        NullFloat  `json:"wind_gusts_10m"`
	ShortwaveRadiation  NullFloat  `json:"shortwave_radiation"`
	AerosolOpticalDepth NullFloat  `json:"aerosol_optical_depth"`
}

// DailySection holds parallel per-day arrays.
type DailySection struct {
	Time                        StringSeries `json:"time"`
	WeatherCode                 FloatSeries  `json:"weather_code"`
	Temperature2m               FloatSeries  `json:"temperature_2m"`
	Temperature2mMax            FloatSeries  `json:"temperature_2m_max"`
	Temperature2mMin            FloatSeries  `json:"temperature_2m_min"`
	Temperature2mMean           FloatSeries  `json:"temperature_2m_mean"`
	RelativeHumidity2m          FloatSeries  `json:"relative_humidity_2m"`
	RelativeHumidity2mMean      FloatSeries  `json:"relative_humidity_2m_mean"`
	CloudCover                  FloatSeries  `json:"cloud_cover"`
	CloudCoverMean              FloatSeries  `json:"cloud_cover_mean"`
	Sunrise                     StringSeries `json:"sunrise"`
	Sunset                      StringSeries `json:"sunset"`
	Precipitation               FloatSeries  `json:"precipitation"`
	PrecipitationSum            FloatSeries  `json:"precipitation_sum"`
	PrecipitationProbabilityMax FloatSeries  `json:"precipitation_probability_max"`
	WindSpeed10m                FloatSeries  `json:"wind_speed_10m"`
	WindSpeed10mMax             FloatSeries  `json:"wind_speed_10m_max"`
	WindGusts10m                FloatSeries  `json:"wind_gusts_10m"`
	WindGusts10mMax             FloatSeries  `json:"wind_gusts_10m_max"`
	WindDirection10m            FloatSeries  `json:"wind_direction_10m"`
	WindDirection10mDominant    FloatSeries  `json:"wind_direction_10m_dominant"`
	PressureMSL                 FloatSeries  `json:"pressure_msl"`
	PressureMSLMean             FloatSeries  `json:"pressure_msl_mean"`
	SurfacePressure             FloatSeries  `json:"surface_pressure"`
	SurfacePressureMean         FloatSeries  `json:"surface_pressure_mean"`
	ShortwaveRadiationSum       FloatSeries  `json:"shortwave_radiation_sum"`
	AerosolOpticalDepth         FloatSeries  `json:"aerosol_optical_depth"`
}

// Days returns how many daily entries the section carries. The time array
// decides; when it is missing the longest value array does.
func (d *DailySection) Days() int {
	if d == nil {
		return 0
	}
	if n := len(d.Time); n > 0 {
		return n
	}
	n := 0
	for _, s := range []FloatSeries{
		d.WeatherCode, d.Temperature2m, d.Temperature2mMax, d.Temperature2mMin,
		d.PrecipitationSum, d.PrecipitationProbabilityMax, d.WindSpeed10mMax,
	} {
		if len(s) > n {
			n = len(s)
		}
	}
	return n
}

// DecodePayload parses a provider response body.
func DecodePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode weather payload: %w", err)
	}
	return &p, nil
}

// datePart extracts the YYYY-MM-DD prefix of an ISO timestamp.
func datePart(s NullString) (string, bool) {
	if !s.Valid || len(s.String) < len("2006-01-02") {
		return "", false
	}
	d := s.String[:10]
	if _, err := time.Parse("2006-01-02", d); err != nil {
		return "", false
	}
	return d, true
}
