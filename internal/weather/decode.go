package weather

import (
	"encoding/json"
	"fmt"
)

// DecodeSnapshot parses a canonical snapshot. Field names written by older
// clients are accepted and mapped onto the canonical fields; encoding a
// Snapshot only ever produces the canonical names.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

func (p *Precipitation) UnmarshalJSON(data []byte) error {
	type plain Precipitation
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	// Percentages from display layers are rescaled once.
	if p.Probability > 1 && p.Probability <= 100 {
		p.Probability /= 100
	}
	return nil
}

func (w *Wind) UnmarshalJSON(data []byte) error {
	type plain Wind
	if err := json.Unmarshal(data, (*plain)(w)); err != nil {
		return err
	}
	var probe struct {
		Gusts        *float64 `json:"gusts_m_s"`
		LegacyGust   *float64 `json:"gust_m_s"`
		Direction    *float64 `json:"direction_deg"`
		LegacyDegree *float64 `json:"direction_degrees"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Gusts == nil && probe.LegacyGust != nil {
		w.GustsMS = *probe.LegacyGust
	}
	if probe.Direction == nil && probe.LegacyDegree != nil {
		w.DirectionDeg = *probe.LegacyDegree
	}
	return nil
}

func (s *Solar) UnmarshalJSON(data []byte) error {
	type plain Solar
	if err := json.Unmarshal(data, (*plain)(s)); err != nil {
		return err
	}
	var probe struct {
		SunriseUTC string `json:"sunrise_utc"`
		SunsetUTC  string `json:"sunset_utc"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if s.Sunrise == "" {
		s.Sunrise = probe.SunriseUTC
	}
	if s.Sunset == "" {
		s.Sunset = probe.SunsetUTC
	}
	return nil
}

func (l *Lightning) UnmarshalJSON(data []byte) error {
	type plain Lightning
	if err := json.Unmarshal(data, (*plain)(l)); err != nil {
		return err
	}
	var probe struct {
		Risk string `json:"risk"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if l.RiskLevel == "" {
		l.RiskLevel = probe.Risk
	}
	return nil
}

func (a *AirQuality) UnmarshalJSON(data []byte) error {
	type plain AirQuality
	if err := json.Unmarshal(data, (*plain)(a)); err != nil {
		return err
	}
	var probe struct {
		AOD       *float64 `json:"aod"`
		Canonical *float64 `json:"aerosol_optical_depth"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Canonical == nil && probe.AOD != nil {
		a.AerosolOpticalDepth = *probe.AOD
	}
	return nil
}

func (m *ModelOutput) UnmarshalJSON(data []byte) error {
	type plain ModelOutput
	if err := json.Unmarshal(data, (*plain)(m)); err != nil {
		return err
	}
	var probe struct {
		Confidence *float64 `json:"confidence"`
		Canonical  *float64 `json:"confidence_score"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Canonical == nil && probe.Confidence != nil {
		m.ConfidenceScore = *probe.Confidence
	}
	return nil
}
