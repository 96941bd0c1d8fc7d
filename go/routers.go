// Package breedserver exposes the breed matching and search use cases over HTTP.
package breedserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions bundles the API handlers mounted by NewRouter.
type ApiHandleFunctions struct {
	BreedAPI   BreedAPI
	SearchAPI  SearchAPI
	CatalogAPI CatalogAPI
	// Middleware runs in front of every /v1 route, e.g. rate limiting.
	Middleware []gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.GET("/healthz", Healthz)
	v1 := router.Group("/v1", handleFunctions.Middleware...)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		v1.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"ListBreeds", http.MethodGet, "/breeds", handleFunctions.BreedAPI.ListBreeds},
		{"GetBreed", http.MethodGet, "/breeds/:name", handleFunctions.BreedAPI.GetBreed},
		{"MatchBreed", http.MethodPost, "/breeds/:name/match", handleFunctions.BreedAPI.MatchBreed},
		{"RankBreeds", http.MethodPost, "/matches", handleFunctions.BreedAPI.RankBreeds},
		{"Search", http.MethodPost, "/search", handleFunctions.SearchAPI.Search},
		{"OpenSession", http.MethodPost, "/search-sessions", handleFunctions.SearchAPI.OpenSession},
		{"GetSession", http.MethodGet, "/search-sessions/:id", handleFunctions.SearchAPI.GetSession},
		{"UpdateSession", http.MethodPatch, "/search-sessions/:id", handleFunctions.SearchAPI.UpdateSession},
		{"CloseSession", http.MethodDelete, "/search-sessions/:id", handleFunctions.SearchAPI.CloseSession},
		{"LoadMore", http.MethodPost, "/search-sessions/:id/more", handleFunctions.SearchAPI.LoadMore},
		{"ImportCatalog", http.MethodPost, "/catalog/imports", handleFunctions.CatalogAPI.ImportCatalog},
		{"ReloadCatalog", http.MethodPost, "/catalog/reload", handleFunctions.CatalogAPI.ReloadCatalog},
	}
}
