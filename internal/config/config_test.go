package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadApplicationDefaults(t *testing.T) {
	for _, key := range []string{"RABBITMQ_QUEUE", "RABBITMQ_RETRY_DELAY", "WEATHER_CITY", "WEATHER_LATITUDE", "WEATHER_LONGITUDE", "REDIS_ENABLED", "LOG_LEVEL", "SCHEDULER_LOCK_RETRY"} {
		if _, ok := os.LookupEnv(key); ok {
			t.Skipf("%s is set in the environment", key)
		}
	}

	cfg, err := Load(filepath.Join("..", "..", "configs", "application.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Broker.Queue != "weather_data" {
		t.Fatalf("Broker.Queue = %q, want weather_data", cfg.Broker.Queue)
	}
	if cfg.Broker.MaxAttempts != 5 {
		t.Fatalf("Broker.MaxAttempts = %d, want 5", cfg.Broker.MaxAttempts)
	}
	if cfg.Broker.RetryDelay != 5*time.Second {
		t.Fatalf("Broker.RetryDelay = %s, want 5s", cfg.Broker.RetryDelay)
	}
	if cfg.Weather.City != "São Paulo" {
		t.Fatalf("Weather.City = %q", cfg.Weather.City)
	}
	if cfg.Weather.Latitude != -23.5505 || cfg.Weather.Longitude != -46.6333 {
		t.Fatalf("coordinates = (%v, %v)", cfg.Weather.Latitude, cfg.Weather.Longitude)
	}
	if cfg.Redis.Enabled {
		t.Fatalf("Redis.Enabled = true, want false")
	}
	if cfg.Schedule.LockRetryInterval != time.Minute {
		t.Fatalf("Schedule.LockRetryInterval = %s, want 1m", cfg.Schedule.LockRetryInterval)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("WEATHER_CITY", "Lisbon")
	t.Setenv("WEATHER_LATITUDE", "38.72")
	t.Setenv("WEATHER_LONGITUDE", "-9.14")
	t.Setenv("RABBITMQ_RETRY_DELAY", "250ms")

	cfg, err := Load(filepath.Join("..", "..", "configs", "application.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Weather.City != "Lisbon" || cfg.Weather.Latitude != 38.72 || cfg.Weather.Longitude != -9.14 {
		t.Fatalf("weather location = %+v", cfg.Weather)
	}
	if cfg.Broker.RetryDelay != 250*time.Millisecond {
		t.Fatalf("Broker.RetryDelay = %s, want 250ms", cfg.Broker.RetryDelay)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := &Config{
		LogLevel: "loud",
		Weather: WeatherConfig{
			BaseURL:   "not a url",
			City:      " ",
			Latitude:  120,
			Longitude: 10,
		},
		Broker: BrokerConfig{
			URL:         "http://localhost",
			Queue:       "",
			MaxAttempts: 0,
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("Validate() error = nil, want non-nil")
	}

	for _, want := range []string{"base-url", "latitude", "city", "broker.url", "broker.queue", "max-attempts", "log.level", "lock-retry-interval"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q does not mention %q", err, want)
		}
	}
}
