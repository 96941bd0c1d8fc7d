package catalog

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	"github.com/Apurer/breedmatch-api/internal/platform/temporal/sequences"
)

const (
	// CatalogImportWorkflowName is the public identifier for registering the workflow.
	CatalogImportWorkflowName = "breeds.workflows.CatalogImport"
	// CatalogImportTaskQueue is the queue consumed by the catalog worker.
	CatalogImportTaskQueue = "CATALOG_IMPORT"
)

// CatalogImportWorkflowInput carries the catalog to install.
type CatalogImportWorkflowInput struct {
	Command types.CatalogImportInput
	TraceID string
}

// CatalogImportWorkflow validates and persists a replacement catalog.
func CatalogImportWorkflow(ctx workflow.Context, input CatalogImportWorkflowInput) (*types.CatalogImportResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("CatalogImportWorkflow started", withTraceID(input.TraceID, "breeds", len(input.Command.Breeds))...)
	result, err := sequences.RunCatalogImportSequence(ctx, input.Command)
	if err != nil {
		logger.Error("CatalogImportWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("CatalogImportWorkflow completed", withTraceID(input.TraceID, "version", result.Version)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
