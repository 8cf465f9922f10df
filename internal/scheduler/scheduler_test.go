package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/i474232898/temperature-analysis/internal/weather"
)

type fakeRefresher struct {
	mu     sync.Mutex
	cities []string
	fail   map[string]bool
}

func (f *fakeRefresher) RefreshCoordinates(_ context.Context, city, _ string) (weather.Coordinates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cities = append(f.cities, city)
	if f.fail[city] {
		return weather.Coordinates{}, errors.New("geocoding failed")
	}
	return weather.Coordinates{Name: city}, nil
}

type fakePruner struct{ calls int }

func (p *fakePruner) Prune() int {
	p.calls++
	return 0
}

func TestRunOnceRefreshesAndPrunes(t *testing.T) {
	ref := &fakeRefresher{fail: map[string]bool{"Cairo": true}}
	pr := &fakePruner{}
	s := New([]string{"Paris", "Cairo", "Tokyo"}, time.Hour, "key", ref, pr, zerolog.Nop())

	if got := s.RunOnce(context.Background()); got != 2 {
		t.Fatalf("expected 2 refreshed cities, got %d", got)
	}
	if len(ref.cities) != 3 {
		t.Errorf("expected every city to be attempted, got %v", ref.cities)
	}
	if pr.calls != 1 {
		t.Errorf("expected one prune, got %d", pr.calls)
	}
}

func TestRunOnceWithoutKeyOnlyPrunes(t *testing.T) {
	ref := &fakeRefresher{}
	pr := &fakePruner{}
	s := New([]string{"Paris"}, time.Hour, "", ref, pr, zerolog.Nop())

	if got := s.RunOnce(context.Background()); got != 0 {
		t.Fatalf("expected no refresh without a key, got %d", got)
	}
	if len(ref.cities) != 0 || pr.calls != 1 {
		t.Errorf("unexpected calls: refreshed=%v prunes=%d", ref.cities, pr.calls)
	}
}

func TestStartStop(t *testing.T) {
	s := New(nil, time.Hour, "", nil, nil, zerolog.Nop())
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop()
}
