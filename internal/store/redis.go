package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/i474232898/temperature-analysis/internal/weather"
)

const redisKeyPrefix = "temperature-analysis:coordinates:"

// RedisStore caches geocoding results in Redis with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. A ttl <= 0 keeps entries forever.
func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client, ttl: ttl}
}

// Check pings the server.
func (s *RedisStore) Check(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) SaveCoordinates(ctx context.Context, city string, coords weather.Coordinates) error {
	payload, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("marshal coordinates: %w", err)
	}

	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, redisKeyPrefix+city, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) GetCoordinates(ctx context.Context, city string) (weather.Coordinates, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+city).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return weather.Coordinates{}, ErrNotFound
		}
		return weather.Coordinates{}, fmt.Errorf("redis get: %w", err)
	}

	var coords weather.Coordinates
	if err := json.Unmarshal(data, &coords); err != nil {
		return weather.Coordinates{}, fmt.Errorf("unmarshal coordinates: %w", err)
	}
	return coords, nil
}
