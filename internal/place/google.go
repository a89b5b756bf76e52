package place

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"
)

// GoogleGeocoder reverse-geocodes through the Google Geocoding API.
// The underlying client keeps its API key in package state, so one key per process.
type GoogleGeocoder struct {
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{reverse: geocoder.GeocodingReverse}
}

// Reverse ignores ctx cancellation once the request is in flight; the client has no context support.
func (g *GoogleGeocoder) Reverse(ctx context.Context, lat, lon float64) (Address, error) {
	if err := ctx.Err(); err != nil {
		return Address{}, err
	}
	addrs, err := g.reverse(geocoder.Location{Latitude: lat, Longitude: lon})
	if err != nil {
		return Address{}, fmt.Errorf("google geocoding: %w", err)
	}
	if len(addrs) == 0 {
		return Address{}, fmt.Errorf("google geocoding: no results")
	}
	a := addrs[0]
	return Address{
		City:    a.City,
		Region:  a.County,
		State:   a.State,
		Country: a.Country,
	}, nil
}
