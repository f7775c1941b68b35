package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/precivox/backend/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Cache   CacheConfig
	Search  SearchConfig
	Fetcher FetcherConfig
	Logging LoggingConfig
	Sources []SourceConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	Type       string         `mapstructure:"type"` // "memory", "redis" or "sqlite"
	RedisURL   string         `mapstructure:"redis_url"`
	SQLitePath string         `mapstructure:"sqlite_path"`
	Capacity   int            `mapstructure:"capacity"`
	Capacities map[string]int `mapstructure:"capacities"`
}

// SearchConfig tunes the query pipeline
type SearchConfig struct {
	MaxSuggestions    int `mapstructure:"max_suggestions"`
	AutocompleteLimit int `mapstructure:"autocomplete_limit"`
}

// FetcherConfig holds outbound HTTP settings
type FetcherConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// SourceConfig describes one upstream market source
type SourceConfig struct {
	ID       string            `mapstructure:"id"`
	Name     string            `mapstructure:"name"`
	MarketID string            `mapstructure:"market_id"`
	Kind     string            `mapstructure:"kind"`
	Endpoint string            `mapstructure:"endpoint"`
	Enabled  bool              `mapstructure:"enabled"`
	Priority int               `mapstructure:"priority"`
	Timeout  time.Duration     `mapstructure:"timeout"`
	CacheTTL time.Duration     `mapstructure:"cache_ttl"`
	Headers  map[string]string `mapstructure:"headers"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/precivox/")

	v.SetEnvPrefix("PRECIVOX")
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything else.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.sqlite_path", "precivox-cache.db")
	v.SetDefault("cache.capacity", 256)

	v.SetDefault("search.max_suggestions", 10)
	v.SetDefault("search.autocomplete_limit", 8)

	v.SetDefault("fetcher.requests_per_second", 10.0)
	v.SetDefault("fetcher.burst", 5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Cache.Type {
	case "memory", "sqlite":
	case "redis":
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when cache type is 'redis'")
		}
	default:
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'sqlite', got: %s", config.Cache.Type)
	}

	switch config.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging format must be 'json' or 'console', got: %s", config.Logging.Format)
	}

	for i, src := range config.Sources {
		if src.ID == "" || src.MarketID == "" || src.Endpoint == "" {
			return fmt.Errorf("source %d is missing id, market_id or endpoint", i)
		}
	}
	return nil
}

// ToSources converts the configured source list to domain sources.
func (c *Config) ToSources() []domain.Source {
	sources := make([]domain.Source, len(c.Sources))
	for i, src := range c.Sources {
		sources[i] = domain.Source{
			ID:       src.ID,
			Name:     src.Name,
			MarketID: src.MarketID,
			Kind:     domain.SourceKind(src.Kind),
			Endpoint: src.Endpoint,
			Enabled:  src.Enabled,
			Priority: src.Priority,
			Timeout:  src.Timeout,
			CacheTTL: src.CacheTTL,
			Headers:  src.Headers,
		}
	}
	return sources
}
