package catalog

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
)

const (
	// ValidateCatalogActivityName checks an incoming catalog without touching storage.
	ValidateCatalogActivityName = "breeds.activities.ValidateCatalog"
	// PersistCatalogActivityName replaces the stored catalog.
	PersistCatalogActivityName = "breeds.activities.PersistCatalog"
	// InvalidCatalogErrorType tags non-retryable validation failures.
	InvalidCatalogErrorType = "InvalidCatalog"
)

// Activities groups the catalog import activities.
type Activities struct {
	service ports.Service
}

// NewActivities wires the breeds service into the activities bundle.
func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// ValidateCatalog rejects malformed catalogs. Failures are not retried.
func (a *Activities) ValidateCatalog(ctx context.Context, input types.CatalogImportInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("ValidateCatalog activity started", "breeds", len(input.Breeds), "source", input.Source)
	if err := application.ValidateCatalog(input.Breeds); err != nil {
		logger.Warn("ValidateCatalog rejected catalog", "error", err)
		return invalidCatalog(err)
	}
	logger.Info("ValidateCatalog activity completed", "breeds", len(input.Breeds))
	return nil
}

// PersistCatalog stores the catalog through the service and returns its summary.
func (a *Activities) PersistCatalog(ctx context.Context, input types.CatalogImportInput) (*types.CatalogImportResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("catalog persist activity not initialized")
		return nil, errors.New("catalog persist activity not initialized")
	}
	logger.Info("PersistCatalog activity started", "breeds", len(input.Breeds), "source", input.Source)
	result, err := a.service.ImportCatalog(ctx, input)
	if err != nil {
		logger.Error("PersistCatalog activity failed", "error", err)
		if errors.Is(err, application.ErrInvalidInput) {
			return nil, invalidCatalog(err)
		}
		return nil, err
	}
	logger.Info("PersistCatalog activity completed", "version", result.Version, "breeds", result.Breeds)
	return result, nil
}

func invalidCatalog(err error) error {
	return temporal.NewNonRetryableApplicationError(err.Error(), InvalidCatalogErrorType, err)
}
