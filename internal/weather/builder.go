package weather

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/i474232898/raincheck/internal/common"
	"github.com/i474232898/raincheck/internal/place"
)

// Defaults applied when the upstream value is absent or out of range.
const (
	DefaultGridResolution = 0.25
	DefaultTemperature    = 15.0
	DefaultHumidity       = 50.0
	DefaultCoverage       = 50.0
	DefaultPressure       = 1013.0
	DefaultAerosol        = 0.1
	DefaultSunrise        = "T06:00"
	DefaultSunset         = "T18:00"

	instantConfidence = 0.9
	weeklyDays        = 7
)

// Builder turns provider payloads into canonical snapshots.
// It holds no mutable state and is safe for concurrent use.
type Builder struct {
	gridResolution float64
	now            func() time.Time
}

// NewBuilder returns a Builder using the wall clock for missing dates.
func NewBuilder() *Builder {
	return &Builder{gridResolution: DefaultGridResolution, now: time.Now}
}

// WithClock returns a copy of b that reads dates from now.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	c := *b
	c.now = now
	return &c
}

// reading is the intermediate, unit-converted view of one instant or one day.
// Every field stays optional until assemble applies the defaults.
type reading struct {
	date         string
	code         NullFloat
	temperature  NullFloat
	tempMax      NullFloat
	tempMin      NullFloat
	humidity     NullFloat
	cloudCover   NullFloat
	windSpeed    NullFloat // m/s
	windGusts    NullFloat // m/s
	windDir      NullFloat
	pressure     NullFloat
	prevPressure NullFloat
	intensity    NullFloat // mm/h
	precipAmount NullFloat // mm, for the humidity heuristic
	probability  NullFloat // 0..1
	irradiance   NullFloat // W/m2
	clearSky     float64
	sunrise      NullString
	sunset       NullString
	aerosol      NullFloat
	confidence   float64
}

// Snapshot normalizes the current conditions of p.
func (b *Builder) Snapshot(coords Coordinates, p *Payload) (Snapshot, error) {
	if p == nil {
		return Snapshot{}, fmt.Errorf("%w: payload is nil", ErrIncompleteUpstreamData)
	}
	if p.Current == nil {
		return Snapshot{}, fmt.Errorf("%w: missing %q section", ErrIncompleteUpstreamData, "current")
	}
	cur := p.Current
	d := p.Daily
	if d == nil {
		d = &DailySection{}
	}
	wind := windFactor(p.CurrentUnits["wind_speed_10m"])

	date, ok := datePart(cur.Time)
	if !ok {
		date, ok = datePart(d.Time.At(0))
	}
	if !ok {
		date = b.now().Format(time.DateOnly)
	}

	clearSky := ClearSkyPeak
	if isDay, ok := cur.IsDay.Within(0, 1); ok && isDay == 0 {
		clearSky = 0
	}

	r := reading{
		date:         date,
		code:         cur.WeatherCode,
		temperature:  cur.Temperature2m,
		tempMax:      d.Temperature2mMax.At(0),
		tempMin:      d.Temperature2mMin.At(0),
		humidity:     cur.RelativeHumidity2m,
		cloudCover:   cur.CloudCover,
		windSpeed:    cur.WindSpeed10m.Scale(wind),
		windGusts:    cur.WindGusts10m.Scale(wind),
		windDir:      cur.WindDirection10m,
		pressure:     cur.SurfacePressure.Or(cur.PressureMSL),
		intensity:    cur.Precipitation,
		precipAmount: cur.Precipitation,
		probability:  d.PrecipitationProbabilityMax.At(0).Scale(0.01),
		irradiance:   cur.ShortwaveRadiation,
		clearSky:     clearSky,
		sunrise:      d.Sunrise.At(0),
		sunset:       d.Sunset.At(0),
		aerosol:      cur.AerosolOpticalDepth,
		confidence:   instantConfidence,
	}
	return b.assemble(coords, r), nil
}

// Weekly normalizes up to seven days of p.daily, ascending by date.
func (b *Builder) Weekly(coords Coordinates, p *Payload) (WeeklySequence, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: payload is nil", ErrIncompleteUpstreamData)
	}
	d := p.Daily
	if d == nil || d.Days() == 0 {
		return nil, fmt.Errorf("%w: missing %q section", ErrIncompleteUpstreamData, "daily")
	}
	wind := windFactor(p.DailyUnits["wind_speed_10m_max"])
	if u, ok := p.DailyUnits["wind_speed_10m"]; ok && len(d.WindSpeed10m) > 0 {
		wind = windFactor(u)
	}

	n := min(d.Days(), weeklyDays)
	seq := make(WeeklySequence, 0, n)
	var prevDate string
	for i := 0; i < n; i++ {
		date, ok := datePart(d.Time.At(i))
		if !ok {
			if prevDate != "" {
				date = nextDay(prevDate)
			} else {
				date = b.now().Format(time.DateOnly)
			}
		}
		prevDate = date

		sum := d.PrecipitationSum.At(i).Or(d.Precipitation.At(i))
		r := reading{
			date:         date,
			code:         d.WeatherCode.At(i),
			temperature:  d.Temperature2m.At(i).Or(d.Temperature2mMean.At(i)),
			tempMax:      d.Temperature2mMax.At(i),
			tempMin:      d.Temperature2mMin.At(i),
			humidity:     d.RelativeHumidity2m.At(i).Or(d.RelativeHumidity2mMean.At(i)),
			cloudCover:   d.CloudCover.At(i).Or(d.CloudCoverMean.At(i)),
			windSpeed:    d.WindSpeed10m.At(i).Or(d.WindSpeed10mMax.At(i)).Scale(wind),
			windGusts:    d.WindGusts10m.At(i).Or(d.WindGusts10mMax.At(i)).Scale(wind),
			windDir:      d.WindDirection10m.At(i).Or(d.WindDirection10mDominant.At(i)),
			pressure:     dailyPressure(d, i),
			prevPressure: dailyPressure(d, i-1),
			intensity:    sum.Scale(1.0 / 24),
			precipAmount: sum,
			probability:  d.PrecipitationProbabilityMax.At(i).Scale(0.01),
			irradiance:   d.ShortwaveRadiationSum.At(i).Scale(1e6 / 86400),
			clearSky:     ClearSkyDailyMean,
			sunrise:      d.Sunrise.At(i),
			sunset:       d.Sunset.At(i),
			aerosol:      d.AerosolOpticalDepth.At(i),
			confidence:   math.Max(instantConfidence-0.05*float64(i), 0.5),
		}
		seq = append(seq, b.assemble(coords, r))
	}

	sort.SliceStable(seq, func(i, j int) bool { return seq[i].Date < seq[j].Date })
	out := seq[:0]
	for i, s := range seq {
		if i > 0 && s.Date == out[len(out)-1].Date {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// assemble applies ranges and defaults. Every snapshot field is assigned exactly once here.
func (b *Builder) assemble(coords Coordinates, r reading) Snapshot {
	code, hasCode := wmoCode(r.code)

	temp, ok := r.temperature.Within(-90, 60)
	if !ok {
		mx, okMax := r.tempMax.Within(-90, 60)
		mn, okMin := r.tempMin.Within(-90, 60)
		switch {
		case okMax && okMin:
			temp = (mx + mn) / 2
		case okMax:
			temp = mx
		case okMin:
			temp = mn
		default:
			temp = DefaultTemperature
		}
	}
	tempMax := valueOr(r.tempMax, -90, 60, temp)
	tempMin := valueOr(r.tempMin, -90, 60, temp)

	humidity, ok := r.humidity.Within(0, 100)
	if !ok {
		if hasCode || r.precipAmount.Valid {
			humidity = EstimateHumidity(r.code, r.precipAmount)
		} else {
			humidity = DefaultHumidity
		}
	}

	coverage, ok := r.cloudCover.Within(0, 100)
	if !ok {
		coverage = DefaultCoverage
		if hasCode {
			coverage = EstimateCloudCoverage(code)
		}
	}

	speed := common.Round(valueOr(r.windSpeed, 0, 150, 0), 2)
	gusts := common.Round(valueOr(r.windGusts, 0, 200, speed), 2)
	direction := valueOr(r.windDir, 0, 360, 0)
	if direction == 360 {
		direction = 0
	}

	pressure := valueOr(r.pressure, 300, 1100, DefaultPressure)
	trend := TrendSteady
	if prev, ok := r.prevPressure.Within(300, 1100); ok {
		if cur, ok := r.pressure.Within(300, 1100); ok {
			switch {
			case cur-prev > 1:
				trend = TrendRising
			case cur-prev < -1:
				trend = TrendFalling
			}
		}
	}

	intensity := common.Round(valueOr(r.intensity, 0, 500, 0), 2)
	probability, ok := r.probability.Within(0, 1)
	if !ok {
		probability = ProbabilityFromRate(intensity)
	}
	probability = common.Round(probability, 2)

	cloudType := cloudTypeFor(code, hasCode, coverage)
	irradiance, ok := r.irradiance.Within(0, 1500)
	if ok {
		irradiance = common.Round(irradiance, 1)
	} else {
		irradiance = EstimateIrradiance(coverage, r.clearSky)
	}

	summary := unknownConditions
	if hasCode {
		summary = ConditionDescription(code)
	}

	return Snapshot{
		Location: Location{
			Latitude:          coords.Latitude,
			Longitude:         coords.Longitude,
			PlaceName:         place.FormatCoordinates(coords.Latitude, coords.Longitude),
			GridResolutionDeg: b.gridResolution,
		},
		Date: r.date,
		AtmosphericConditions: AtmosphericConditions{
			Precipitation: Precipitation{
				Probability:   probability,
				Type:          PrecipitationType(code, hasCode, intensity),
				IntensityMMHr: intensity,
			},
			Temperature: Temperature{
				SurfaceCelsius:  temp,
				DewPointCelsius: DewPoint(temp, humidity),
				MinCelsius:      tempMin,
				MaxCelsius:      tempMax,
			},
			Humidity: Humidity{RelativePercent: humidity},
			Wind:     Wind{SpeedMS: speed, DirectionDeg: direction, GustsMS: gusts},
			Clouds: Clouds{
				CoveragePercent: coverage,
				Type:            cloudType,
				OpticalDepth:    OpticalDepth(cloudType, coverage),
			},
			Solar: Solar{
				IrradianceWM2: irradiance,
				Sunrise:       r.sunrise.Or(Str(r.date + DefaultSunrise)).String,
				Sunset:        r.sunset.Or(Str(r.date + DefaultSunset)).String,
			},
			Pressure:   Pressure{SurfaceHPa: pressure, Trend: trend},
			Lightning:  Lightning{RiskLevel: LightningRisk(code, hasCode, probability)},
			AirQuality: AirQuality{AerosolOpticalDepth: valueOr(r.aerosol, 0, 5, DefaultAerosol)},
		},
		ForecastSummary: summary,
		ModelOutput: ModelOutput{
			RainForecastIndex: probability,
			ConfidenceScore:   common.Round(r.confidence, 2),
		},
	}
}

func valueOr(v NullFloat, lo, hi, def float64) float64 {
	if f, ok := v.Within(lo, hi); ok {
		return f
	}
	return def
}

// cloudTypeFor falls back to a coverage based guess when no code is known.
func cloudTypeFor(code int, hasCode bool, coverage float64) string {
	if hasCode {
		return CloudType(code)
	}
	switch {
	case coverage < 20:
		return CloudClear
	case coverage > 80:
		return CloudStratus
	default:
		return CloudCumulus
	}
}

func dailyPressure(d *DailySection, i int) NullFloat {
	return d.SurfacePressure.At(i).
		Or(d.SurfacePressureMean.At(i)).
		Or(d.PressureMSL.At(i)).
		Or(d.PressureMSLMean.At(i))
}

// windFactor converts the advertised wind unit to m/s. Open-Meteo defaults to km/h.
func windFactor(unit string) float64 {
	u := strings.ToLower(strings.TrimSpace(unit))
	switch {
	case common.HasAny(u, "m/s", "ms"):
		return 1
	case common.HasAny(u, "mph", "mp/h"):
		return 0.44704
	case common.HasAny(u, "kn", "kt"):
		return 0.514444
	default:
		return 1 / 3.6
	}
}

func nextDay(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, 1).Format(time.DateOnly)
}
