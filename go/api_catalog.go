package breedserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	breedhttpmapper "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/http/mapper"
	breedstypes "github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	breedsports "github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
)

// CatalogAPI replaces or reloads the breed catalog.
type CatalogAPI struct {
	service breedsports.Service
	imports breedsports.CatalogImportOrchestrator
}

// NewCatalogAPI creates a CatalogAPI. A nil orchestrator imports through the service.
func NewCatalogAPI(service breedsports.Service, imports breedsports.CatalogImportOrchestrator) CatalogAPI {
	return CatalogAPI{service: service, imports: imports}
}

// Post /v1/catalog/imports
// Validates and installs a replacement catalog
func (api *CatalogAPI) ImportCatalog(c *gin.Context) {
	var payload breedhttpmapper.CatalogImportRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	source := payload.Source
	if source == "" {
		source = "http"
	}
	input := breedstypes.CatalogImportInput{Breeds: breedhttpmapper.ToDomainBreeds(payload.Breeds), Source: source}
	var (
		result *breedstypes.CatalogImportResult
		err    error
	)
	if api.imports != nil {
		result, err = api.imports.ImportCatalog(c.Request.Context(), input)
	} else {
		result, err = api.service.ImportCatalog(c.Request.Context(), input)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, breedhttpmapper.FromCatalogImport(result))
}

// Post /v1/catalog/reload
// Re-reads the stored catalog
func (api *CatalogAPI) ReloadCatalog(c *gin.Context) {
	result, err := api.service.ReloadCatalog(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, breedhttpmapper.FromCatalogImport(result))
}
