package main

import (
	"fmt"
	"net/http"

	"github.com/i474232898/raincheck/internal/config"
	"github.com/i474232898/raincheck/internal/logger"
	"github.com/i474232898/raincheck/internal/place"
	"github.com/i474232898/raincheck/internal/store"
	"github.com/i474232898/raincheck/internal/weather"
	"github.com/i474232898/raincheck/internal/weather/providers"
)

// app holds the wired components shared by every command.
type app struct {
	cfg      *config.AppConfig
	store    *store.MemoryStore
	resolver *place.Resolver
	service  *weather.Service
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel == "" {
		logger.SetLevel(cfg.LogLevel)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxEntries, cfg.StoreMaxAge)

	// Open-Meteo with resilience (backoff + circuit breaker).
	provider := providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoURL)

	var geocoder place.Geocoder
	switch cfg.Geocoder {
	case config.GeocoderNominatim:
		geocoder = place.NewNominatimGeocoder(cfg.NominatimURL, cfg.UserAgent, cfg.HTTPTimeout)
	case config.GeocoderGoogle:
		geocoder = place.NewGoogleGeocoder(cfg.GeocoderAPIKey)
	}
	resolver := place.NewResolver(geocoder, cfg.PlaceBoxes...)

	var opts []weather.Option
	if cfg.UseFallback {
		opts = append(opts, weather.WithFallback(providers.FallbackPayload))
	}

	return &app{
		cfg:      cfg,
		store:    memStore,
		resolver: resolver,
		service:  weather.NewService(provider, memStore, resolver, opts...),
	}, nil
}
