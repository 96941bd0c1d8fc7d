package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	catalogactivities "github.com/Apurer/breedmatch-api/internal/platform/temporal/activities/catalog"
)

// RunCatalogImportSequence validates a catalog, then persists it.
func RunCatalogImportSequence(ctx workflow.Context, input types.CatalogImportInput) (*types.CatalogImportResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("catalog import sequence started", "breeds", len(input.Breeds), "source", input.Source)
	validateOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        5 * time.Second,
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{catalogactivities.InvalidCatalogErrorType},
		},
	}
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        2 * time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: []string{catalogactivities.InvalidCatalogErrorType},
		},
	}

	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, validateOptions), catalogactivities.ValidateCatalogActivityName, input).Get(ctx, nil)
	if err != nil {
		logger.Error("catalog import sequence validation failed", "error", err)
		return nil, err
	}

	var result types.CatalogImportResult
	err = workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), catalogactivities.PersistCatalogActivityName, input).Get(ctx, &result)
	if err != nil {
		logger.Error("catalog import sequence persist failed", "error", err)
		return nil, err
	}
	logger.Info("catalog import sequence persisted", "version", result.Version, "breeds", result.Breeds)
	return &result, nil
}
