package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port string `yaml:"port" default:"8080" validate:"required,numeric"`

	// OpenWeatherAPIKey is the server-side default; requests may bring their own key.
	OpenWeatherAPIKey string `yaml:"openweather_api_key"`
	// GeocoderAPIKey enables the Google geocoder as the first geocoding source.
	GeocoderAPIKey string `yaml:"geocoder_api_key"`

	CurrentProvider    string        `yaml:"current_provider" default:"openweather" validate:"oneof=openweather openmeteo"`
	OpenWeatherBaseURL string        `yaml:"openweather_base_url" default:"https://api.openweathermap.org" validate:"url"`
	OpenMeteoBaseURL   string        `yaml:"openmeteo_base_url" default:"https://api.open-meteo.com" validate:"url"`
	HTTPTimeout        time.Duration `yaml:"http_timeout" default:"10s" validate:"gt=0"`
	WeatherMaxRetries  int           `yaml:"weather_max_retries" default:"0" validate:"gte=0,lte=5"`

	LogLevel  string `yaml:"log_level" default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" default:"json" validate:"oneof=json console"`

	// Coordinates cache retention (0 = unlimited).
	CoordinatesMaxAge     time.Duration `yaml:"coordinates_max_age" default:"168h" validate:"gte=0"`
	CoordinatesMaxEntries int           `yaml:"coordinates_max_entries" default:"256" validate:"gte=0"`

	CoordinatesRefreshInterval time.Duration `yaml:"coordinates_refresh_interval" default:"24h" validate:"gt=0"`
	// RefreshCities defaults to every supported city when empty.
	RefreshCities []string `yaml:"refresh_cities"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db" default:"0" validate:"gte=0"`

	MaxUploadBytes int  `yaml:"max_upload_bytes" default:"33554432" validate:"gt=0"`
	MetricsEnabled bool `yaml:"metrics_enabled" default:"true"`
}

var validate = validator.New()

// Load builds the configuration in layers: struct defaults, an optional YAML
// file, then environment variables (a .env file is loaded first if present).
// An empty path falls back to CONFIG_FILE.
func Load(path string) (*AppConfig, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.OpenWeatherAPIKey = getenvDefault("OPENWEATHER_API_KEY", cfg.OpenWeatherAPIKey)
	cfg.GeocoderAPIKey = getenvDefault("GEOCODER_API_KEY", cfg.GeocoderAPIKey)
	cfg.CurrentProvider = getenvDefault("CURRENT_PROVIDER", cfg.CurrentProvider)
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", cfg.OpenWeatherBaseURL)
	cfg.OpenMeteoBaseURL = getenvDefault("OPENMETEO_BASE_URL", cfg.OpenMeteoBaseURL)
	cfg.LogLevel = getenvDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenvDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.RedisAddr = getenvDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getenvDefault("REDIS_PASSWORD", cfg.RedisPassword)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return err
	}
	if cfg.CoordinatesMaxAge, err = getenvDuration("COORDINATES_MAX_AGE", cfg.CoordinatesMaxAge); err != nil {
		return err
	}
	if cfg.CoordinatesRefreshInterval, err = getenvDuration("COORDINATES_REFRESH_INTERVAL", cfg.CoordinatesRefreshInterval); err != nil {
		return err
	}
	if cfg.WeatherMaxRetries, err = getenvInt("WEATHER_MAX_RETRIES", cfg.WeatherMaxRetries); err != nil {
		return err
	}
	if cfg.CoordinatesMaxEntries, err = getenvInt("COORDINATES_MAX_ENTRIES", cfg.CoordinatesMaxEntries); err != nil {
		return err
	}
	if cfg.RedisDB, err = getenvInt("REDIS_DB", cfg.RedisDB); err != nil {
		return err
	}
	if cfg.MaxUploadBytes, err = getenvInt("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes); err != nil {
		return err
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid METRICS_ENABLED: %w", err)
		}
		cfg.MetricsEnabled = enabled
	}
	if v := os.Getenv("REFRESH_CITIES"); v != "" {
		cfg.RefreshCities = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
