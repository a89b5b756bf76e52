package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/raincheck/internal/place"
)

type fakeProvider struct {
	mu      sync.Mutex
	payload *Payload
	err     error
	calls   int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Fetch(ctx context.Context, coords Coordinates) (*Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.payload, f.err
}

type mapStore struct {
	mu sync.Mutex
	m  map[string]*Payload
}

func newMapStore() *mapStore { return &mapStore{m: map[string]*Payload{}} }

func (s *mapStore) SavePayload(key string, p *Payload, fetchedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = p
}

func (s *mapStore) GetPayload(key string) (*Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.m[key]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

type namedPlace string

func (n namedPlace) Resolve(ctx context.Context, lat, lon float64, last *place.LastKnown) string {
	if last != nil && last.PlaceName != "" {
		return last.PlaceName
	}
	return string(n)
}

func TestService_CurrentUsesCacheAfterFirstFetch(t *testing.T) {
	prov := &fakeProvider{payload: decode(t, currentJSON)}
	store := newMapStore()
	svc := NewService(prov, store, namedPlace("Canelones, Uruguay"), WithBuilder(fixedBuilder()))

	s, err := svc.Current(context.Background(), canelones, nil)
	require.NoError(t, err)
	assert.Equal(t, "Canelones, Uruguay", s.Location.PlaceName)

	_, err = svc.Current(context.Background(), canelones, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, prov.calls)
}

func TestService_TransportFailureServesFallback(t *testing.T) {
	prov := &fakeProvider{err: fmt.Errorf("%w: connection refused", ErrTransportFailure)}
	fallback := func() (*Payload, error) { return decode(t, currentJSON), nil }
	store := newMapStore()
	svc := NewService(prov, store, nil, WithBuilder(fixedBuilder()), WithFallback(fallback))

	s, err := svc.Current(context.Background(), canelones, nil)
	require.NoError(t, err)
	assert.Equal(t, "Light rain", s.ForecastSummary)
	assert.Equal(t, "-34.75, -56.04", s.Location.PlaceName)
	assert.Empty(t, store.m, "fallback data is never cached")
}

func TestService_OtherErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&fakeProvider{err: boom}, nil, nil,
		WithFallback(func() (*Payload, error) { return &Payload{}, nil }))

	_, err := svc.Current(context.Background(), canelones, nil)
	assert.ErrorIs(t, err, boom)
}

func TestService_FallbackFailure(t *testing.T) {
	svc := NewService(&fakeProvider{err: ErrTransportFailure}, nil, nil,
		WithFallback(func() (*Payload, error) { return nil, errors.New("missing") }))

	_, err := svc.Weekly(context.Background(), canelones, nil)
	assert.ErrorIs(t, err, ErrTransportFailure)
}

func TestService_WeeklyCarriesPlaceName(t *testing.T) {
	prov := &fakeProvider{payload: decode(t, weeklyJSON)}
	svc := NewService(prov, nil, namedPlace("ignored"), WithBuilder(fixedBuilder()))
	last := &place.LastKnown{Latitude: -34.75, Longitude: -56.04, PlaceName: "Home"}

	seq, err := svc.Weekly(context.Background(), canelones, last)
	require.NoError(t, err)
	require.Len(t, seq, 7)
	for _, s := range seq {
		assert.Equal(t, "Home", s.Location.PlaceName)
	}
}

func TestService_IncompleteDataSurfaces(t *testing.T) {
	prov := &fakeProvider{payload: decode(t, `{"daily":{"time":["2025-10-06"]}}`)}
	svc := NewService(prov, nil, nil)

	_, err := svc.Current(context.Background(), canelones, nil)
	assert.ErrorIs(t, err, ErrIncompleteUpstreamData)
}

func TestService_RefreshBypassesCache(t *testing.T) {
	prov := &fakeProvider{payload: decode(t, currentJSON)}
	store := newMapStore()
	store.m[canelones.Key()] = &Payload{}
	svc := NewService(prov, store, nil)

	require.NoError(t, svc.Refresh(context.Background(), canelones))
	assert.Equal(t, 1, prov.calls)
	assert.Same(t, prov.payload, store.m[canelones.Key()])

	prov.err = ErrTransportFailure
	assert.ErrorIs(t, svc.Refresh(context.Background(), canelones), ErrTransportFailure)
}

const offsetOnlyJSON = `{
  "timezone": "Nowhere/Unknown",
  "utc_offset_seconds": -10800,
  "current": {"time": "2025-10-06T05:00", "cloud_cover": 10, "precipitation": 0},
  "daily": {
    "time": ["2025-10-06"],
    "sunrise": ["2025-10-06T06:48"],
    "sunset": ["2025-10-06T19:27"],
    "precipitation_probability_max": [10]
  }
}`

func TestService_CurrentConditionUsesLocationTime(t *testing.T) {
	svc := NewService(&fakeProvider{payload: decode(t, offsetOnlyJSON)}, nil, nil, WithBuilder(fixedBuilder()))

	// 08:00 UTC is 05:00 at the location, before sunrise.
	_, cond, err := svc.CurrentCondition(context.Background(), canelones, nil, time.Date(2025, 10, 6, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, Condition{LabelSunny, "wi-night-sunny"}, cond)

	_, cond, err = svc.CurrentCondition(context.Background(), canelones, nil, time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, Condition{LabelSunny, "wi-day-sunny"}, cond)
}

func TestService_CurrentConditionPrefersIsDay(t *testing.T) {
	p := decode(t, offsetOnlyJSON)
	p.Current.IsDay = Float(0)
	svc := NewService(&fakeProvider{payload: p}, nil, namedPlace("Canelones, Uruguay"), WithBuilder(fixedBuilder()))

	s, cond, err := svc.CurrentCondition(context.Background(), canelones, nil, time.Date(2025, 10, 6, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "Canelones, Uruguay", s.Location.PlaceName)
	assert.Equal(t, "wi-night-sunny", cond.IconKey)
}

func TestPayload_Zone(t *testing.T) {
	assert.Equal(t, -10800, offsetOf(decode(t, `{"utc_offset_seconds": -10800}`).Zone()))
	assert.Equal(t, time.UTC, decode(t, `{}`).Zone())
}

func offsetOf(loc *time.Location) int {
	_, off := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
	return off
}
