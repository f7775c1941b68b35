package config

import (
	"os"
	"testing"
	"time"

	"github.com/precivox/backend/internal/domain"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("PRECIVOX_SERVER_PORT")
		os.Unsetenv("PRECIVOX_SERVER_ENVIRONMENT")
		os.Unsetenv("PRECIVOX_CACHE_TYPE")
		os.Unsetenv("PRECIVOX_CACHE_REDIS_URL")
		os.Unsetenv("PRECIVOX_SEARCH_MAX_SUGGESTIONS")
		os.Unsetenv("PRECIVOX_FETCHER_BURST")
		os.Unsetenv("PRECIVOX_LOGGING_FORMAT")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.Capacity != 256 {
			t.Errorf("Cache.Capacity = %d, want 256", cfg.Cache.Capacity)
		}
		if cfg.Search.MaxSuggestions != 10 {
			t.Errorf("Search.MaxSuggestions = %d, want 10", cfg.Search.MaxSuggestions)
		}
		if cfg.Search.AutocompleteLimit != 8 {
			t.Errorf("Search.AutocompleteLimit = %d, want 8", cfg.Search.AutocompleteLimit)
		}
		if cfg.Fetcher.RequestsPerSecond != 10.0 {
			t.Errorf("Fetcher.RequestsPerSecond = %v, want 10", cfg.Fetcher.RequestsPerSecond)
		}
		if cfg.Logging.Format != "json" {
			t.Errorf("Logging.Format = %s, want json", cfg.Logging.Format)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRECIVOX_SERVER_PORT", "9090")
		os.Setenv("PRECIVOX_SERVER_ENVIRONMENT", "production")
		os.Setenv("PRECIVOX_CACHE_TYPE", "redis")
		os.Setenv("PRECIVOX_CACHE_REDIS_URL", "redis://localhost:6379")
		os.Setenv("PRECIVOX_SEARCH_MAX_SUGGESTIONS", "20")
		os.Setenv("PRECIVOX_LOGGING_FORMAT", "console")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Cache.Type != "redis" {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379", cfg.Cache.RedisURL)
		}
		if cfg.Search.MaxSuggestions != 20 {
			t.Errorf("Search.MaxSuggestions = %d, want 20", cfg.Search.MaxSuggestions)
		}
		if cfg.Logging.Format != "console" {
			t.Errorf("Logging.Format = %s, want console", cfg.Logging.Format)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRECIVOX_CACHE_TYPE", "invalid")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails validation when redis URL missing for redis cache", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRECIVOX_CACHE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing Redis URL")
		}
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Cache:   CacheConfig{Type: "memory"},
			Logging: LoggingConfig{Format: "json"},
		}
	}

	t.Run("validates successfully with defaults", func(t *testing.T) {
		if err := validate(base()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("accepts sqlite cache type", func(t *testing.T) {
		cfg := base()
		cfg.Cache.Type = "sqlite"
		cfg.Cache.SQLitePath = "cache.db"
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for redis cache without URL", func(t *testing.T) {
		cfg := base()
		cfg.Cache.Type = "redis"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for redis without URL")
		}
	})

	t.Run("fails for invalid logging format", func(t *testing.T) {
		cfg := base()
		cfg.Logging.Format = "xml"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for invalid logging format")
		}
	})

	t.Run("fails for incomplete source", func(t *testing.T) {
		cfg := base()
		cfg.Sources = []SourceConfig{{ID: "s1"}}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for source without market or endpoint")
		}
	})
}

func TestToSources(t *testing.T) {
	cfg := &Config{
		Sources: []SourceConfig{
			{
				ID:       "mercado-api",
				Name:     "Mercado Central",
				MarketID: "mercado-central",
				Kind:     "api",
				Endpoint: "https://api.mercado.test/products",
				Enabled:  true,
				Priority: 1,
				Timeout:  5 * time.Second,
				CacheTTL: 30 * time.Minute,
				Headers:  map[string]string{"Authorization": "Bearer token"},
			},
		},
	}

	sources := cfg.ToSources()
	if len(sources) != 1 {
		t.Fatalf("got %d sources, want 1", len(sources))
	}
	src := sources[0]
	if src.Kind != domain.SourceKindAPI {
		t.Errorf("Kind = %q, want api", src.Kind)
	}
	if src.MarketID != "mercado-central" {
		t.Errorf("MarketID = %q, want mercado-central", src.MarketID)
	}
	if src.Timeout != 5*time.Second || src.CacheTTL != 30*time.Minute {
		t.Errorf("Timeout/CacheTTL = %v/%v, want 5s/30m", src.Timeout, src.CacheTTL)
	}
	if src.Headers["Authorization"] == "" {
		t.Error("Headers were not carried over")
	}
}
