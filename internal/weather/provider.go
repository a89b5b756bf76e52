package weather

import (
	"context"
	"time"

	"github.com/i474232898/raincheck/internal/place"
)

// Provider abstracts a weather data source (e.g. Open-Meteo).
// Implementations wrap network and status failures in ErrTransportFailure.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, coords Coordinates) (*Payload, error)
}

// Store is the contract the in-memory payload cache must satisfy.
// Payloads handed to and returned by a Store are treated as read-only.
type Store interface {
	SavePayload(key string, p *Payload, fetchedAt time.Time)
	GetPayload(key string) (*Payload, error)
}

// PlaceResolver turns coordinates into a display name. It never fails.
type PlaceResolver interface {
	Resolve(ctx context.Context, lat, lon float64, last *place.LastKnown) string
}
