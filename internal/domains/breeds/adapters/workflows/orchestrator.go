package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
	catalogactivities "github.com/Apurer/breedmatch-api/internal/platform/temporal/activities/catalog"
	catalogworkflows "github.com/Apurer/breedmatch-api/internal/platform/temporal/workflows/catalog"
)

var (
	_ ports.CatalogImportOrchestrator = (*TemporalCatalogImports)(nil)
	_ ports.CatalogImportOrchestrator = (*InlineCatalogImports)(nil)
)

// TemporalCatalogImports runs catalog imports on a Temporal cluster. Once the
// workflow has persisted the catalog, the local service reloads it.
type TemporalCatalogImports struct {
	client    client.Client
	service   ports.Service
	taskQueue string
}

// NewTemporalCatalogImports wires a Temporal client into the orchestrator.
func NewTemporalCatalogImports(c client.Client, service ports.Service) *TemporalCatalogImports {
	return &TemporalCatalogImports{client: c, service: service, taskQueue: catalogworkflows.CatalogImportTaskQueue}
}

// ImportCatalog starts the import workflow and waits for it. Identical catalogs map
// to the same workflow ID, so a concurrent duplicate joins the running import.
func (o *TemporalCatalogImports) ImportCatalog(ctx context.Context, input types.CatalogImportInput) (*types.CatalogImportResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal catalog imports not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildCatalogImportWorkflowID(input)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		catalogworkflows.CatalogImportWorkflow,
		catalogworkflows.CatalogImportWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, translateWorkflowError(err)
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var result types.CatalogImportResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, translateWorkflowError(err)
	}
	if o.service != nil {
		if _, err := o.service.ReloadCatalog(ctx); err != nil {
			return nil, fmt.Errorf("catalog %s persisted but reload failed: %w", result.Version, err)
		}
	}
	return &result, nil
}

// InlineCatalogImports imports through the service directly, for tests or when
// Temporal is unavailable.
type InlineCatalogImports struct {
	service ports.Service
}

// NewInlineCatalogImports wraps the breeds service for synchronous execution.
func NewInlineCatalogImports(service ports.Service) *InlineCatalogImports {
	return &InlineCatalogImports{service: service}
}

func (o *InlineCatalogImports) ImportCatalog(ctx context.Context, input types.CatalogImportInput) (*types.CatalogImportResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline catalog imports not configured")
	}
	return o.service.ImportCatalog(ctx, input)
}

func buildCatalogImportWorkflowID(input types.CatalogImportInput) string {
	payload, err := json.Marshal(input.Breeds)
	if err != nil {
		return fmt.Sprintf("catalog-import-%d", time.Now().UnixNano())
	}
	sum := sha256.Sum256(payload)
	return "catalog-import-" + hex.EncodeToString(sum[:8])
}

// translateWorkflowError restores ErrInvalidInput for validation failures raised
// inside the workflow and marks frontend outages as ErrOrchestratorUnavailable.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && appErr.Type() == catalogactivities.InvalidCatalogErrorType {
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, appErr.Message())
	}
	var unavailable *serviceerror.Unavailable
	if errors.As(err, &unavailable) {
		return fmt.Errorf("%w: %w", ports.ErrOrchestratorUnavailable, err)
	}
	return err
}

func workflowTraceComponent(ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent != "" {
		return traceComponent
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
