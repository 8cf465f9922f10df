package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/temperature-analysis/internal/weather"
)

const refreshTimeout = 30 * time.Second

// Refresher geocodes a city and caches its coordinates.
type Refresher interface {
	RefreshCoordinates(ctx context.Context, city, apiKey string) (weather.Coordinates, error)
}

// Pruner drops expired cache entries.
type Pruner interface {
	Prune() int
}

// Scheduler periodically refreshes cached coordinates for configured cities.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	pruner    Pruner
	cities    []string
	apiKey    string
	interval  time.Duration
	log       zerolog.Logger
}

// New creates a new Scheduler. Without an API key the job only prunes;
// pruner may be nil when the store expires entries itself.
func New(cities []string, interval time.Duration, apiKey string, refresher Refresher, pruner Pruner, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		pruner:    pruner,
		cities:    cities,
		apiKey:    apiKey,
		interval:  interval,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every city concurrently, then prunes the cache.
// It returns the number of cities refreshed.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	refreshed := 0
	if s.apiKey != "" && s.refresher != nil && len(s.cities) > 0 {
		refreshed = s.refreshAll(ctx)
	}

	pruned := 0
	if s.pruner != nil {
		pruned = s.pruner.Prune()
	}

	s.log.Info().
		Int("refreshed", refreshed).
		Int("cities", len(s.cities)).
		Int("pruned", pruned).
		Msg("coordinates refresh completed")
	return refreshed
}

func (s *Scheduler) refreshAll(ctx context.Context) int {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		refreshed int
	)

	for _, city := range s.cities {
		city := city
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
			defer cancel()

			if _, err := s.refresher.RefreshCoordinates(ctx, city, s.apiKey); err != nil {
				s.log.Warn().Err(err).Str("city", city).Msg("coordinates refresh failed")
				return
			}

			mu.Lock()
			refreshed++
			mu.Unlock()
		}()
	}
	wg.Wait()
	return refreshed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
