package main

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/precivox/backend/config"
	httpDelivery "github.com/precivox/backend/internal/delivery/http"
	"github.com/precivox/backend/internal/domain"
	"github.com/precivox/backend/internal/infrastructure/cache"
	"github.com/precivox/backend/internal/infrastructure/source"
	"github.com/precivox/backend/internal/pkg/logging"
	"github.com/precivox/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stdout,
	})

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Int("sources", len(cfg.Sources)).
		Msg("starting precivox search")

	store, closeStore, err := buildStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize cache store")
	}
	if closeStore != nil {
		defer closeStore()
	}

	c := cache.New(store, cache.Config{
		DefaultCapacity: cfg.Cache.Capacity,
		Capacities:      cfg.Cache.Capacities,
	}, logger)

	registry := source.NewRegistry(logger)
	if err := registry.Load(cfg.ToSources()); err != nil {
		logger.Fatal().Err(err).Msg("failed to load sources")
	}
	logger.Info().
		Int("sources", registry.SourceCount()).
		Int("markets", registry.MarketCount()).
		Msg("source registry ready")

	fetcher := source.NewHTTPFetcher(cfg.Fetcher.RequestsPerSecond, cfg.Fetcher.Burst, logger)

	engine := usecase.NewFanoutEngine(registry, fetcher, c, logger)
	tracker := usecase.NewQueryTracker()
	suggester := usecase.NewSuggestionService(tracker)
	search := usecase.NewSearchService(engine, suggester, tracker, registry, c, logger)

	handler := httpDelivery.NewHandler(search)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server listening")
	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// buildStore picks the cache backend from configuration. The returned
// close function is nil for backends with nothing to release.
func buildStore(cfg *config.Config) (domain.Store, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		opts, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		return cache.NewRedisStore(rdb), func() { rdb.Close() }, nil
	case "sqlite":
		store, err := cache.NewSQLiteStore(cfg.Cache.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		return store, func() { store.Close() }, nil
	default:
		return cache.NewMemoryStore(), nil, nil
	}
}
