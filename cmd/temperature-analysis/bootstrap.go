package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/i474232898/temperature-analysis/internal/config"
	"github.com/i474232898/temperature-analysis/internal/dashboard"
	"github.com/i474232898/temperature-analysis/internal/logger"
	"github.com/i474232898/temperature-analysis/internal/metrics"
	"github.com/i474232898/temperature-analysis/internal/store"
	"github.com/i474232898/temperature-analysis/internal/weather"
	"github.com/i474232898/temperature-analysis/internal/weather/providers"
)

// application holds the wired components shared by the commands.
type application struct {
	cfg      *config.AppConfig
	log      zerolog.Logger
	recorder *metrics.Recorder
	client   *weather.Client
	service  *dashboard.Service

	// Exactly one of memory and redis is set.
	memory *store.MemoryStore
	redis  *store.RedisStore
}

func bootstrap(ctx context.Context, configPath string) (*application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return nil, err
	}

	a := &application{
		cfg:      cfg,
		log:      log,
		recorder: metrics.New(),
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var cache weather.CoordinatesStore
	if cfg.RedisAddr != "" {
		a.redis = store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CoordinatesMaxAge)
		if err := a.redis.Check(ctx); err != nil {
			_ = a.redis.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		cache = a.redis
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis coordinates cache")
	} else {
		a.memory = store.NewMemoryStore(cfg.CoordinatesMaxEntries, cfg.CoordinatesMaxAge)
		cache = a.memory
	}

	openWeather := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherBaseURL, cfg.WeatherMaxRetries)

	var geocoders []weather.Geocoder
	if cfg.GeocoderAPIKey != "" {
		geocoders = append(geocoders, providers.NewGoogleGeocoder(cfg.GeocoderAPIKey))
	}
	geocoders = append(geocoders, openWeather)

	var current weather.CurrentProvider = openWeather
	if cfg.CurrentProvider == "openmeteo" {
		current = providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoBaseURL, cfg.WeatherMaxRetries)
	}

	a.client = weather.NewClient(current, geocoders,
		weather.WithCache(cache),
		weather.WithRecorder(a.recorder),
		weather.WithLogger(log),
	)

	a.service = dashboard.NewService(a.client,
		dashboard.WithRecorder(a.recorder),
		dashboard.WithLogger(log),
		dashboard.WithDefaultAPIKey(cfg.OpenWeatherAPIKey),
	)

	log.Debug().
		Str("current_provider", current.Name()).
		Int("geocoders", len(geocoders)).
		Msg("application wired")
	return a, nil
}

func (a *application) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close redis")
		}
	}
}
