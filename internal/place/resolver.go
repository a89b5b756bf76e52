// Package place resolves coordinates to human readable place names.
package place

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/i474232898/raincheck/internal/logger"
)

// ErrResolutionFailure is returned by geocoders that produced no usable name.
// The Resolver never surfaces it.
var ErrResolutionFailure = errors.New("place resolution failed")

// sameSpot is how close, in degrees, a remembered location must be to be reused.
const sameSpot = 0.01

// Address holds the components a reverse lookup may return.
type Address struct {
	City         string
	Town         string
	Village      string
	Municipality string
	Hamlet       string
	State        string
	Region       string
	Country      string
}

// DisplayName composes "locality, region, country", skipping empty parts.
func (a Address) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, group := range [][]string{
		{a.City, a.Town, a.Village, a.Municipality, a.Hamlet},
		{a.State, a.Region},
		{a.Country},
	} {
		if v := firstNonEmpty(group...); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// Geocoder performs a single reverse lookup.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (Address, error)
}

// LastKnown is a name the caller already holds for a location.
type LastKnown struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PlaceName string  `json:"place_name"`
}

// Matches reports whether l describes the given coordinates.
func (l *LastKnown) Matches(lat, lon float64) bool {
	if l == nil || strings.TrimSpace(l.PlaceName) == "" {
		return false
	}
	return math.Abs(l.Latitude-lat) <= sameSpot && math.Abs(l.Longitude-lon) <= sameSpot
}

// Resolver chains the geocoder with progressively coarser fallbacks.
type Resolver struct {
	geocoder Geocoder
	boxes    []BoundingBox
}

// NewResolver builds a Resolver. geocoder may be nil for offline use; extra
// boxes are consulted after the built-in table.
func NewResolver(geocoder Geocoder, extra ...BoundingBox) *Resolver {
	boxes := make([]BoundingBox, 0, len(DefaultBoxes)+len(extra))
	boxes = append(boxes, DefaultBoxes...)
	boxes = append(boxes, extra...)
	return &Resolver{geocoder: geocoder, boxes: boxes}
}

// Resolve returns a display name for (lat, lon). It makes at most one geocoder
// call and always returns a non-empty name.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64, last *LastKnown) string {
	if r.geocoder != nil {
		name, err := r.lookup(ctx, lat, lon)
		if err == nil {
			return name
		}
		logger.Debugf("reverse geocoding %.4f,%.4f failed: %v", lat, lon, err)
	}

	if last.Matches(lat, lon) {
		return last.PlaceName
	}
	for _, b := range r.boxes {
		if b.Contains(lat, lon) {
			return b.Name
		}
	}
	return FormatCoordinates(lat, lon)
}

func (r *Resolver) lookup(ctx context.Context, lat, lon float64) (string, error) {
	addr, err := r.geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrResolutionFailure, err)
	}
	name := addr.DisplayName()
	if name == "" {
		return "", fmt.Errorf("%w: no usable address component", ErrResolutionFailure)
	}
	return name, nil
}

// FormatCoordinates is the last-resort display name.
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.2f, %.2f", lat, lon)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
