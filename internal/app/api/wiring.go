package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	rediscache "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/cache/redis"
	breedsmemory "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/memory"
	breedspostgres "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/persistence/postgres"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
	platformobservability "github.com/Apurer/breedmatch-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/breedmatch-api/internal/platform/postgres"
)

// BuildCatalogRepository returns the Postgres catalog repository, or the in-memory one
// when Postgres is not configured or unreachable.
func BuildCatalogRepository(ctx context.Context, cfg Config, logger *slog.Logger) (ports.CatalogRepository, func()) {
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return breedsmemory.NewCatalogRepository(), cleanup
	}
	logger.Info("catalog repository configured with postgres")
	return breedspostgres.NewRepository(db), cleanup
}

// BuildRankingCache returns a Redis-backed ranking cache, or the in-memory one when
// Redis is not configured or does not answer a ping.
func BuildRankingCache(ctx context.Context, cfg Config, logger *slog.Logger) (ports.RankingCache, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, caching rankings in memory")
		return breedsmemory.NewRankingCache(), func() {}
	}
	redisClient, err := rediscache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis ping failed, caching rankings in memory", slog.String("error", err.Error()))
		return breedsmemory.NewRankingCache(), func() {}
	}
	logger.Info("ranking cache configured with redis", slog.String("addr", cfg.RedisAddr))
	return rediscache.NewRankingCache(redisClient, rediscache.WithLogger(logger)), func() { _ = redisClient.Close() }
}

// ConnectTemporalClient dials Temporal with tracing and structured logging.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments, component string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(component)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, fmt.Errorf("configure temporal tracing: %w", err)
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
