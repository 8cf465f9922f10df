package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/i474232898/temperature-analysis/internal/weather"
)

var (
	// ErrNotFound is returned when no coordinates are cached for a city.
	ErrNotFound = errors.New("no coordinates for city")
)

type coordinatesEntry struct {
	coords  weather.Coordinates
	savedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory cache of geocoding results.
type MemoryStore struct {
	mu sync.RWMutex

	// key: city name as selected by the user
	data map[string]coordinatesEntry

	// retention configuration
	maxEntries int           // max number of cached cities
	maxAge     time.Duration // optional max age for entries

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxEntries or maxAge is <= 0, it is treated as unlimited.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]coordinatesEntry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveCoordinates stores coordinates for a city and enforces the size limit
// by evicting the oldest entry.
func (s *MemoryStore) SaveCoordinates(_ context.Context, city string, coords weather.Coordinates) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[city]; !exists && s.maxEntries > 0 && len(s.data) >= s.maxEntries {
		s.evictOldest()
	}

	s.data[city] = coordinatesEntry{coords: coords, savedAt: s.now()}
	return nil
}

// GetCoordinates returns unexpired coordinates for a city.
func (s *MemoryStore) GetCoordinates(_ context.Context, city string) (weather.Coordinates, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[city]
	if !ok || s.expired(entry) {
		return weather.Coordinates{}, ErrNotFound
	}
	return entry.coords, nil
}

// Prune removes expired entries and returns how many were dropped.
func (s *MemoryStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for city, entry := range s.data {
		if s.expired(entry) {
			delete(s.data, city)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached cities, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) expired(e coordinatesEntry) bool {
	return s.maxAge > 0 && s.now().Sub(e.savedAt) > s.maxAge
}

func (s *MemoryStore) evictOldest() {
	var (
		oldestCity string
		oldestAt   time.Time
	)
	for city, entry := range s.data {
		if oldestCity == "" || entry.savedAt.Before(oldestAt) {
			oldestCity = city
			oldestAt = entry.savedAt
		}
	}
	if oldestCity != "" {
		delete(s.data, oldestCity)
	}
}
