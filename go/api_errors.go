package breedserver

import (
	"github.com/gin-gonic/gin"

	breedsapp "github.com/Apurer/breedmatch-api/internal/domains/breeds/application"
	breedsports "github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
	apierrors "github.com/Apurer/breedmatch-api/internal/shared/errors"
)

var breedErrors = apierrors.NewChainedResponder("",
	apierrors.MapSentinel(breedsports.ErrNotFound, apierrors.ErrNotFound.WithExtension("resourceType", "breed")),
	apierrors.MapSentinel(breedsports.ErrSessionNotFound, apierrors.ErrNotFound.WithExtension("resourceType", "searchSession")),
	apierrors.MapSentinel(breedsapp.ErrInvalidInput, apierrors.ErrValidation),
	apierrors.MapSentinel(breedsports.ErrOrchestratorUnavailable, apierrors.ErrUnavailable),
)

// respondBadRequest reports a body or query that could not be decoded.
func respondBadRequest(c *gin.Context, err error) {
	apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

// respondServiceError maps breeds service errors onto problem responses.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	breedErrors.RespondError(c, err)
}
