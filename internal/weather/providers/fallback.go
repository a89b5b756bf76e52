package providers

import (
	_ "embed"

	"github.com/i474232898/raincheck/internal/weather"
)

//go:embed fallback.json
var fallbackJSON []byte

// FallbackPayload returns a canned Open-Meteo response for when the provider is unreachable.
// Each call decodes a fresh copy.
func FallbackPayload() (*weather.Payload, error) {
	return weather.DecodePayload(fallbackJSON)
}
