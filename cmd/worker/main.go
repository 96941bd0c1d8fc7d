package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/breedmatch-api/internal/app/api"
	platformobservability "github.com/Apurer/breedmatch-api/internal/platform/observability"
	catalogactivities "github.com/Apurer/breedmatch-api/internal/platform/temporal/activities/catalog"
	catalogworkflows "github.com/Apurer/breedmatch-api/internal/platform/temporal/workflows/catalog"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}
	ctx := context.Background()
	const serviceName = "breedmatch-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, cfg.ObservabilityOptions()...)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	if cfg.PostgresDSN == "" {
		logger.Warn("worker has no POSTGRES_DSN; imported catalogs will not reach the API processes")
	}

	service, cleanup, err := api.BuildService(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to build breeds service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()
	catalogActivities := catalogactivities.NewActivities(service)

	temporalClient, err := api.ConnectTemporalClient(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, catalogworkflows.CatalogImportTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(catalogworkflows.CatalogImportWorkflow, workflow.RegisterOptions{Name: catalogworkflows.CatalogImportWorkflowName})
	w.RegisterActivityWithOptions(catalogActivities.ValidateCatalog, activity.RegisterOptions{Name: catalogactivities.ValidateCatalogActivityName})
	w.RegisterActivityWithOptions(catalogActivities.PersistCatalog, activity.RegisterOptions{Name: catalogactivities.PersistCatalogActivityName})

	logger.Info("worker listening", slog.String("taskQueue", catalogworkflows.CatalogImportTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
