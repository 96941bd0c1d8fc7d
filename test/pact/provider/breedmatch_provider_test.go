//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/Apurer/breedmatch-api/test/pact"

	breedserver "github.com/Apurer/breedmatch-api/go"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/bundled"
	breedsmemory "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/memory"
	breedsobs "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/observability"
	breedsworkflows "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/workflows"
	breedsapp "github.com/Apurer/breedmatch-api/internal/domains/breeds/application"
	breedstypes "github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	breedsports "github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestBreedMatchProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	reset := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.resetCatalog(t)
		return nil, nil
	}
	verifier := pactprovider.NewVerifier()
	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers: models.StateHandlers{
			pacttest.StateCatalogBaseline: reset,
			pacttest.StateBreedExists:     reset,
			pacttest.StateBreedMissing:    reset,
		},
		BeforeEach: func() error {
			app.resetCatalog(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	service breedsports.Service
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	service := breedsobs.New(breedsapp.NewService(breedsmemory.NewCatalogRepository(), breedsmemory.NewSessionStore()))
	handlers := breedserver.ApiHandleFunctions{
		BreedAPI:   breedserver.NewBreedAPI(service),
		SearchAPI:  breedserver.NewSearchAPI(service),
		CatalogAPI: breedserver.NewCatalogAPI(service, breedsworkflows.NewInlineCatalogImports(service)),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router = breedserver.NewRouterWithGinEngine(router, handlers)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	app := &contractProviderApp{service: service, server: server}
	app.resetCatalog(t)
	return app
}

func (a *contractProviderApp) resetCatalog(t testing.TB) {
	t.Helper()
	breeds, err := bundled.Breeds()
	require.NoError(t, err)
	_, err = a.service.ImportCatalog(context.Background(), breedstypes.CatalogImportInput{Breeds: breeds, Source: "pact"})
	require.NoError(t, err)
}
