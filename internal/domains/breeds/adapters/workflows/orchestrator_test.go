package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/temporal"

	breedmemory "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/memory"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/breedstest"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
	catalogactivities "github.com/Apurer/breedmatch-api/internal/platform/temporal/activities/catalog"
)

func TestInlineCatalogImports_DelegatesToService(t *testing.T) {
	svc := application.NewService(breedmemory.NewCatalogRepository(), breedmemory.NewSessionStore())
	imports := NewInlineCatalogImports(svc)

	result, err := imports.ImportCatalog(context.Background(), types.CatalogImportInput{Breeds: breedstest.Sample()})
	require.NoError(t, err)
	require.Equal(t, 3, result.Breeds)

	_, err = imports.ImportCatalog(context.Background(), types.CatalogImportInput{})
	require.ErrorIs(t, err, application.ErrInvalidInput)
}

func TestUnconfiguredOrchestratorsFail(t *testing.T) {
	var temporalImports *TemporalCatalogImports
	_, err := temporalImports.ImportCatalog(context.Background(), types.CatalogImportInput{})
	require.Error(t, err)

	_, err = NewInlineCatalogImports(nil).ImportCatalog(context.Background(), types.CatalogImportInput{})
	require.Error(t, err)
}

func TestBuildCatalogImportWorkflowID_IsContentAddressed(t *testing.T) {
	a := types.CatalogImportInput{Breeds: breedstest.Sample(), Source: "a"}
	b := types.CatalogImportInput{Breeds: breedstest.Sample(), Source: "b"}
	c := types.CatalogImportInput{Breeds: []domain.Breed{breedstest.Basenji()}}

	require.Equal(t, buildCatalogImportWorkflowID(a), buildCatalogImportWorkflowID(b))
	require.NotEqual(t, buildCatalogImportWorkflowID(a), buildCatalogImportWorkflowID(c))
	require.Contains(t, buildCatalogImportWorkflowID(a), "catalog-import-")
}

func TestTranslateWorkflowError_RestoresInvalidInput(t *testing.T) {
	invalid := temporal.NewNonRetryableApplicationError("empty catalog", catalogactivities.InvalidCatalogErrorType, nil)
	require.ErrorIs(t, translateWorkflowError(invalid), application.ErrInvalidInput)

	other := errors.New("deadline exceeded")
	require.Equal(t, other, translateWorkflowError(other))
}

func TestTranslateWorkflowError_MarksFrontendOutage(t *testing.T) {
	err := translateWorkflowError(serviceerror.NewUnavailable("frontend down"))
	require.ErrorIs(t, err, ports.ErrOrchestratorUnavailable)
	require.Contains(t, err.Error(), "frontend down")
}

func TestWorkflowTraceComponent_FallsBackWithoutSpan(t *testing.T) {
	require.Contains(t, workflowTraceComponent(context.Background()), "fallback-")
}
