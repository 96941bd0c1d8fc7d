package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	breedserver "github.com/Apurer/breedmatch-api/go"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/bundled"
	breedsmemory "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/memory"
	breedsobs "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/observability"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/policyfile"
	breedsworkflows "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/workflows"
	breedsapp "github.com/Apurer/breedmatch-api/internal/domains/breeds/application"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/search"
	platformobservability "github.com/Apurer/breedmatch-api/internal/platform/observability"
	"github.com/Apurer/breedmatch-api/internal/platform/ratelimit"
)

const serviceName = "breedmatch-api"

// Run boots the breed matching HTTP API with observability, storage, caching and
// workflows wired. It returns when ctx is cancelled or a component fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, cfg.ObservabilityOptions()...)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service, cleanup, err := BuildService(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanup()

	var imports ports.CatalogImportOrchestrator = breedsworkflows.NewInlineCatalogImports(service)
	if temporalClient, err := ConnectTemporalClient(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, importing catalogs inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		imports = breedsworkflows.NewTemporalCatalogImports(temporalClient, service)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router = breedserver.NewRouterWithGinEngine(router, breedserver.ApiHandleFunctions{
		BreedAPI:   breedserver.NewBreedAPI(service),
		SearchAPI:  breedserver.NewSearchAPI(service),
		CatalogAPI: breedserver.NewCatalogAPI(service, imports),
		Middleware: []gin.HandlerFunc{ratelimit.Middleware(ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst))},
	})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("breedmatch API listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("breedmatch API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return SweepSessions(gctx, service, cfg.SessionSweepInterval, logger)
	})
	return g.Wait()
}

// BuildService assembles the decorated breeds service and loads the catalog.
func BuildService(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (ports.Service, func(), error) {
	logger := effectiveLogger(instruments)
	policies, err := policyfile.Load(cfg.MatchPolicyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load match policy: %w", err)
	}
	seed, err := bundled.Breeds()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode bundled catalog: %w", err)
	}

	repo, cleanupRepo := BuildCatalogRepository(ctx, cfg, logger)
	rankings, cleanupCache := BuildRankingCache(ctx, cfg, logger)
	core := breedsapp.NewService(
		repo,
		breedsmemory.NewSessionStore(),
		breedsapp.WithMatcher(policies.Matcher()),
		breedsapp.WithFilterPolicy(policies.Filter),
		breedsapp.WithRankingCache(rankings, cfg.RankingCacheTTL),
		breedsapp.WithSessionIdleTTL(cfg.SessionIdleTTL),
		breedsapp.WithPipelineOptions(
			search.WithDebounce(cfg.SearchDebounce),
			search.WithPageSize(cfg.SearchPageSize),
		),
		breedsapp.WithSeedCatalog(seed),
		breedsapp.WithLogger(logger),
	)
	cleanup := func() {
		if _, err := core.CloseAllSessions(context.Background()); err != nil {
			logger.Warn("failed to close search sessions", slog.String("error", err.Error()))
		}
		cleanupCache()
		cleanupRepo()
	}
	service := breedsobs.New(
		core,
		breedsobs.WithLogger(logger),
		breedsobs.WithTracer(instruments.Tracer("internal.breeds.application")),
		breedsobs.WithMeter(instruments.Meter("internal.breeds.application")),
	)
	if _, err := service.ReloadCatalog(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return service, cleanup, nil
}

// SweepSessions closes idle search sessions every interval until ctx ends.
func SweepSessions(ctx context.Context, service ports.Service, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := service.SweepSessions(ctx); err != nil {
				logger.Warn("session sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}
