package ports

import (
	"context"
	"errors"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
)

// CatalogImportOrchestrator runs catalog imports, durably or inline.
type CatalogImportOrchestrator interface {
	ImportCatalog(ctx context.Context, input types.CatalogImportInput) (*types.CatalogImportResult, error)
}

// ErrOrchestratorUnavailable reports that the durable backend could not accept
// the import. Callers may retry later.
var ErrOrchestratorUnavailable = errors.New("catalog import orchestrator unavailable")
