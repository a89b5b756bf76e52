package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/raincheck/internal/weather"
)

const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

var (
	currentFields = []string{
		"temperature_2m", "relative_humidity_2m", "apparent_temperature", "is_day",
		"precipitation", "weather_code", "cloud_cover", "pressure_msl", "surface_pressure",
		"wind_speed_10m", "wind_direction_10m", "wind_gusts_10m", "shortwave_radiation",
	}
	dailyFields = []string{
		"weather_code", "temperature_2m_max", "temperature_2m_min", "sunrise", "sunset",
		"precipitation_sum", "precipitation_probability_max", "wind_speed_10m_max",
		"wind_gusts_10m_max", "wind_direction_10m_dominant", "shortwave_radiation_sum",
	}
)

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name         string
	baseURL      string
	forecastDays int
	httpCfg      HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoProvider{
		name:         "openmeteo",
		baseURL:      baseURL,
		forecastDays: 7,
		httpCfg:      HTTPClientConfig{Client: client, Backoff: DefaultBackoff},
		circuit:      newCircuitBreaker("openmeteo"),
	}
}

// WithBackoff overrides the retry policy.
func (p *OpenMeteoProvider) WithBackoff(b BackoffConfig) *OpenMeteoProvider {
	p.httpCfg.Backoff = b
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Fetch requests current conditions plus a seven day daily forecast in one call.
// Every failure is wrapped in weather.ErrTransportFailure.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, coords weather.Coordinates) (*weather.Payload, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', 4, 64))
		values.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', 4, 64))
		values.Set("current", strings.Join(currentFields, ","))
		values.Set("daily", strings.Join(dailyFields, ","))
		values.Set("timezone", "auto")
		values.Set("forecast_days", strconv.Itoa(p.forecastDays))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", weather.ErrTransportFailure, p.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %w", weather.ErrTransportFailure, p.name, err)
	}

	payload, err := weather.DecodePayload(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", weather.ErrTransportFailure, p.name, err)
	}
	return payload, nil
}
