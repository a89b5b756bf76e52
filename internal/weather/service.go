package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/i474232898/raincheck/internal/logger"
	"github.com/i474232898/raincheck/internal/place"
)

// Service fetches payloads (cache first), resolves place names and builds snapshots.
type Service struct {
	provider Provider
	store    Store
	places   PlaceResolver
	builder  *Builder
	fallback func() (*Payload, error)
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithBuilder replaces the default Builder.
func WithBuilder(b *Builder) Option {
	return func(s *Service) { s.builder = b }
}

// WithFallback sets the payload used when the provider cannot be reached.
func WithFallback(f func() (*Payload, error)) Option {
	return func(s *Service) { s.fallback = f }
}

// NewService creates a new Service. store and places may be nil.
func NewService(provider Provider, store Store, places PlaceResolver, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		store:    store,
		places:   places,
		builder:  NewBuilder(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the normalized current conditions at coords.
func (s *Service) Current(ctx context.Context, coords Coordinates, last *place.LastKnown) (Snapshot, error) {
	p, name, err := s.fetch(ctx, coords, last)
	if err != nil {
		return Snapshot{}, err
	}
	snap, err := s.builder.Snapshot(coords, p)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Location.PlaceName = name
	return snap, nil
}

// CurrentCondition returns the current snapshot with its display condition at
// the instant at. The upstream is_day flag decides day or night when present;
// otherwise at is read in the location's own time zone against sunrise and sunset.
func (s *Service) CurrentCondition(ctx context.Context, coords Coordinates, last *place.LastKnown, at time.Time) (Snapshot, Condition, error) {
	p, name, err := s.fetch(ctx, coords, last)
	if err != nil {
		return Snapshot{}, Condition{}, err
	}
	snap, err := s.builder.Snapshot(coords, p)
	if err != nil {
		return Snapshot{}, Condition{}, err
	}
	snap.Location.PlaceName = name

	tod := TimeOfDayAt(snap, at.In(p.Zone()))
	if isDay, ok := p.Current.IsDay.Within(0, 1); ok {
		tod = Day
		if isDay == 0 {
			tod = Night
		}
	}
	return snap, ClassifySnapshot(snap, tod), nil
}

// Weekly returns up to seven normalized days at coords.
func (s *Service) Weekly(ctx context.Context, coords Coordinates, last *place.LastKnown) (WeeklySequence, error) {
	p, name, err := s.fetch(ctx, coords, last)
	if err != nil {
		return nil, err
	}
	seq, err := s.builder.Weekly(coords, p)
	if err != nil {
		return nil, err
	}
	for i := range seq {
		seq[i].Location.PlaceName = name
	}
	return seq, nil
}

// Refresh fetches coords from the provider, bypassing the cache, and stores the result.
func (s *Service) Refresh(ctx context.Context, coords Coordinates) error {
	logger.Debugf("Refresh called for %s via %s", coords.Key(), s.provider.Name())
	p, err := s.provider.Fetch(ctx, coords)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", coords.Key(), err)
	}
	if s.store != nil {
		s.store.SavePayload(coords.Key(), p, s.now())
	}
	return nil
}

// fetch runs the payload lookup and the place resolution concurrently.
func (s *Service) fetch(ctx context.Context, coords Coordinates, last *place.LastKnown) (*Payload, string, error) {
	var (
		p    *Payload
		name string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = s.payload(gctx, coords)
		return err
	})
	g.Go(func() error {
		if s.places == nil {
			name = place.FormatCoordinates(coords.Latitude, coords.Longitude)
			return nil
		}
		name = s.places.Resolve(gctx, coords.Latitude, coords.Longitude, last)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, "", err
	}
	return p, name, nil
}

func (s *Service) payload(ctx context.Context, coords Coordinates) (*Payload, error) {
	key := coords.Key()
	if s.store != nil {
		if p, err := s.store.GetPayload(key); err == nil {
			logger.Debugf("payload cache hit for %s", key)
			return p, nil
		}
	}

	p, err := s.provider.Fetch(ctx, coords)
	if err == nil {
		if s.store != nil {
			s.store.SavePayload(key, p, s.now())
		}
		return p, nil
	}

	if !errors.Is(err, ErrTransportFailure) || s.fallback == nil {
		return nil, err
	}
	logger.Warnf("provider %s failed for %s, serving fallback data: %v", s.provider.Name(), key, err)
	fb, ferr := s.fallback()
	if ferr != nil {
		return nil, fmt.Errorf("%w; fallback unavailable: %w", err, ferr)
	}
	return fb, nil
}
