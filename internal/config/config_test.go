package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.WeatherMaxRetries != 0 {
		t.Errorf("expected single-shot requests by default, got %d retries", cfg.WeatherMaxRetries)
	}
	if cfg.CoordinatesRefreshInterval != 24*time.Hour {
		t.Errorf("expected 24h refresh interval, got %v", cfg.CoordinatesRefreshInterval)
	}
	if cfg.MaxUploadBytes != 32<<20 {
		t.Errorf("expected 32MiB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.CurrentProvider != "openweather" || !cfg.MetricsEnabled {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("port: \"9000\"\nhttp_timeout: 3s\nlog_level: debug\nrefresh_cities:\n  - Paris\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("REFRESH_CITIES", "London, Tokyo,")
	t.Setenv("WEATHER_MAX_RETRIES", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("expected port from file, got %q", cfg.Port)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("expected timeout from file, got %v", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected env to override file, got %q", cfg.LogLevel)
	}
	if want := []string{"London", "Tokyo"}; !reflect.DeepEqual(cfg.RefreshCities, want) {
		t.Errorf("expected %v, got %v", want, cfg.RefreshCities)
	}
	if cfg.WeatherMaxRetries != 2 {
		t.Errorf("expected 2 retries, got %d", cfg.WeatherMaxRetries)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "HTTP_TIMEOUT", "soon"},
		{"bad int", "REDIS_DB", "one"},
		{"bad bool", "METRICS_ENABLED", "maybe"},
		{"unknown provider", "CURRENT_PROVIDER", "weatherapi"},
		{"too many retries", "WEATHER_MAX_RETRIES", "10"},
		{"bad log format", "LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(""); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
