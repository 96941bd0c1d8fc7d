package breedserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	breedhttpmapper "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/http/mapper"
	breedstypes "github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	breedsports "github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
)

// SearchAPI serves stateless searches and debounced search sessions.
type SearchAPI struct {
	service breedsports.Service
}

// NewSearchAPI creates a SearchAPI backed by the provided service.
func NewSearchAPI(service breedsports.Service) SearchAPI {
	return SearchAPI{service: service}
}

// Post /v1/search
// Filters the catalog by text and preferences in one shot
func (api *SearchAPI) Search(c *gin.Context) {
	var payload breedhttpmapper.SearchRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := api.service.Search(c.Request.Context(), breedhttpmapper.ToSearchInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, breedhttpmapper.FromSearchResult(result))
}

// Post /v1/search-sessions
// Opens a search session
func (api *SearchAPI) OpenSession(c *gin.Context) {
	var payload breedhttpmapper.OpenSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondBadRequest(c, err)
			return
		}
	}
	view, err := api.service.OpenSession(c.Request.Context(), breedstypes.OpenSessionInput{
		SearchText:  payload.SearchText,
		Preferences: payload.Preferences,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Location", "/v1/search-sessions/"+view.ID)
	c.JSON(http.StatusCreated, breedhttpmapper.FromSessionView(view))
}

// Get /v1/search-sessions/:id
// Returns the current state of a session
func (api *SearchAPI) GetSession(c *gin.Context) {
	view, err := api.service.GetSession(c.Request.Context(), breedstypes.SessionIdentifier{ID: c.Param("id")})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, breedhttpmapper.FromSessionView(view))
}

// Patch /v1/search-sessions/:id
// Updates the session filter; results follow after the debounce window unless flushed
func (api *SearchAPI) UpdateSession(c *gin.Context) {
	var payload breedhttpmapper.UpdateSessionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := api.service.UpdateSession(c.Request.Context(), breedhttpmapper.ToUpdateSessionInput(c.Param("id"), payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, breedhttpmapper.FromSessionView(view))
}

// Post /v1/search-sessions/:id/more
// Requests the next page of results
func (api *SearchAPI) LoadMore(c *gin.Context) {
	view, err := api.service.LoadMore(c.Request.Context(), breedstypes.SessionIdentifier{ID: c.Param("id")})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, breedhttpmapper.FromSessionView(view))
}

// Delete /v1/search-sessions/:id
// Closes a session and cancels its pending work
func (api *SearchAPI) CloseSession(c *gin.Context) {
	if err := api.service.CloseSession(c.Request.Context(), breedstypes.SessionIdentifier{ID: c.Param("id")}); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
