package breedserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	breedhttpmapper "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/http/mapper"
	breedstypes "github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	breedsports "github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
)

// BreedAPI serves catalog lookups and match scoring.
type BreedAPI struct {
	service breedsports.Service
}

// NewBreedAPI creates a BreedAPI backed by the provided service.
func NewBreedAPI(service breedsports.Service) BreedAPI {
	return BreedAPI{service: service}
}

// Get /v1/breeds
// Lists the catalog, optionally narrowed to one breed group
func (api *BreedAPI) ListBreeds(c *gin.Context) {
	breeds, err := api.service.ListBreeds(c.Request.Context(), breedstypes.ListBreedsInput{Group: c.Query("group")})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, breedhttpmapper.FromBreeds(breeds))
}

// Get /v1/breeds/:name
// Finds a breed by name
func (api *BreedAPI) GetBreed(c *gin.Context) {
	breed, err := api.service.GetBreed(c.Request.Context(), breedstypes.BreedIdentifier{Name: c.Param("name")})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, breedhttpmapper.FromBreed(*breed))
}

// Post /v1/breeds/:name/match
// Scores one breed against a preference map
func (api *BreedAPI) MatchBreed(c *gin.Context) {
	var payload breedhttpmapper.PreferencesRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	match, err := api.service.MatchBreed(c.Request.Context(), breedstypes.MatchBreedInput{
		Name:        c.Param("name"),
		Preferences: payload.Preferences,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, breedhttpmapper.FromMatch(*match))
}

// Post /v1/matches
// Ranks the catalog against a preference map
func (api *BreedAPI) RankBreeds(c *gin.Context) {
	var payload breedhttpmapper.RankRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	matches, err := api.service.RankBreeds(c.Request.Context(), breedstypes.RankBreedsInput{
		Preferences: payload.Preferences,
		Limit:       payload.Limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, breedhttpmapper.FromMatches(matches))
}
