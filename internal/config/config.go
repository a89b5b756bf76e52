package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/raincheck/internal/place"
	"github.com/i474232898/raincheck/internal/weather"
	"github.com/i474232898/raincheck/internal/weather/providers"
)

// Geocoder backends.
const (
	GeocoderNominatim = "nominatim"
	GeocoderGoogle    = "google"
	GeocoderNone      = "none"
)

type AppConfig struct {
	Port     string
	LogLevel string

	// HTTPTimeout bounds every outbound request.
	HTTPTimeout time.Duration

	OpenMeteoURL string

	// Reverse geocoding.
	Geocoder       string
	NominatimURL   string
	GeocoderAPIKey string
	UserAgent      string

	// UseFallback serves canned data when Open-Meteo is unreachable.
	UseFallback bool

	// FetchInterval controls how often the cache is warmed for each location.
	FetchInterval time.Duration

	// Locations to keep warm.
	Locations []weather.Coordinates

	// Extra named regions for offline place names.
	PlaceBoxes []place.BoundingBox

	// In-memory payload cache retention.
	StoreMaxEntries int           // max number of cached locations (0 = unlimited)
	StoreMaxAge     time.Duration // max age of a cached payload (0 = unlimited)
}

// fileConfig is the optional YAML file named by CONFIG_FILE.
type fileConfig struct {
	Locations  []weather.Coordinates `yaml:"locations"`
	PlaceBoxes []place.BoundingBox   `yaml:"place_boxes"`
}

// DefaultLocation is used when nothing else is configured.
var DefaultLocation = weather.Coordinates{Latitude: -34.75, Longitude: -56.04}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "INFO")
	cfg.OpenMeteoURL = getenvDefault("OPEN_METEO_URL", providers.DefaultOpenMeteoURL)
	cfg.NominatimURL = getenvDefault("NOMINATIM_URL", place.DefaultNominatimURL)
	cfg.GeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")
	cfg.UserAgent = getenvDefault("USER_AGENT", "raincheck/1.0 (+https://github.com/i474232898/raincheck)")
	cfg.UseFallback = getenvBool("USE_FALLBACK", true)

	cfg.Geocoder = strings.ToLower(getenvDefault("GEOCODER", ""))
	if cfg.Geocoder == "" {
		cfg.Geocoder = GeocoderNominatim
		if cfg.GeocoderAPIKey != "" {
			cfg.Geocoder = GeocoderGoogle
		}
	}
	switch cfg.Geocoder {
	case GeocoderNominatim, GeocoderNone:
	case GeocoderGoogle:
		if cfg.GeocoderAPIKey == "" {
			return nil, fmt.Errorf("GEOCODER=google requires GOOGLE_GEOCODER_API_KEY")
		}
	default:
		return nil, fmt.Errorf("invalid GEOCODER %q", cfg.Geocoder)
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	// Scheduler interval: default 15 minutes.
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	// Store retention.
	cfg.StoreMaxEntries = getenvInt("STORE_MAX_ENTRIES", 256)
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "30m"); err != nil {
		return nil, err
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fc, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Locations = fc.Locations
		cfg.PlaceBoxes = fc.PlaceBoxes
	}

	if v := os.Getenv("WEATHER_LOCATIONS"); v != "" {
		locs, err := parseLocations(v)
		if err != nil {
			return nil, err
		}
		cfg.Locations = locs
	}
	if len(cfg.Locations) == 0 {
		cfg.Locations = []weather.Coordinates{DefaultLocation}
	}

	return cfg, nil
}

func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CONFIG_FILE: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse CONFIG_FILE %s: %w", path, err)
	}
	for _, l := range fc.Locations {
		if err := ValidateCoordinates(l); err != nil {
			return nil, fmt.Errorf("CONFIG_FILE %s: %w", path, err)
		}
	}
	for _, b := range fc.PlaceBoxes {
		if err := ValidateBox(b); err != nil {
			return nil, fmt.Errorf("CONFIG_FILE %s: %w", path, err)
		}
	}
	return &fc, nil
}

// parseLocations reads "lat,lon;lat,lon".
func parseLocations(v string) ([]weather.Coordinates, error) {
	var locs []weather.Coordinates
	for _, pair := range strings.Split(v, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid WEATHER_LOCATIONS entry %q: want lat,lon", pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in %q: %w", pair, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in %q: %w", pair, err)
		}
		c := weather.Coordinates{Latitude: lat, Longitude: lon}
		if err := ValidateCoordinates(c); err != nil {
			return nil, err
		}
		locs = append(locs, c)
	}
	return locs, nil
}

// ValidateCoordinates rejects points off the globe.
func ValidateCoordinates(c weather.Coordinates) error {
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("coordinates out of range: %.4f,%.4f", c.Latitude, c.Longitude)
	}
	return nil
}

// ValidateBox rejects unnamed, inverted or off-globe place boxes.
func ValidateBox(b place.BoundingBox) error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("place box %.4f,%.4f..%.4f,%.4f has no name", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
	}
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return fmt.Errorf("place box %q is inverted", b.Name)
	}
	for _, c := range []weather.Coordinates{{Latitude: b.MinLat, Longitude: b.MinLon}, {Latitude: b.MaxLat, Longitude: b.MaxLon}} {
		if err := ValidateCoordinates(c); err != nil {
			return fmt.Errorf("place box %q: %w", b.Name, err)
		}
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
