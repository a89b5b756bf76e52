package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/raincheck/internal/logger"
	"github.com/i474232898/raincheck/internal/weather"
)

// Refresher refreshes the cached payload of one location.
type Refresher interface {
	Refresh(ctx context.Context, coords weather.Coordinates) error
}

// Scheduler periodically warms the payload cache for configured locations.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	refresher  Refresher
	locations  []weather.Coordinates
	interval   time.Duration
	jobTimeout time.Duration
}

// New creates a new Scheduler.
func New(locations []weather.Coordinates, interval time.Duration, refresher Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:  s,
		refresher:  refresher,
		locations:  locations,
		interval:   interval,
		jobTimeout: 30 * time.Second,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		logger.Infof("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	if _, err := s.scheduler.Every(minutes).Minutes().Do(s.RunOnce); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every location concurrently and returns how many succeeded.
func (s *Scheduler) RunOnce() int {
	logger.Infof("scheduler: running cache warm-up for %d locations", len(s.locations))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for _, loc := range s.locations {
		wg.Add(1)
		go func(loc weather.Coordinates) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
			defer cancel()

			if err := s.refresher.Refresh(ctx, loc); err != nil {
				logger.Errorf("scheduler: refresh failed for %s: %v", loc.Key(), err)
				return
			}
			mu.Lock()
			ok++
			mu.Unlock()
		}(loc)
	}
	wg.Wait()

	logger.Infof("scheduler: completed cache warm-up (%d/%d ok)", ok, len(s.locations))
	return ok
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
