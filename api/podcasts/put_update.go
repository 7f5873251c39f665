package podcasts

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stationhq/media-api/api/types"
	"github.com/stationhq/media-api/internal/record"
	"github.com/stationhq/media-api/internal/services/podcasts"
)

// updateRequest carries the caller's field map under a "podcast" key;
// a body without the wrapper is rejected.
type updateRequest struct {
	Podcast map[string]any `json:"podcast" binding:"required"`
}

// PutUpdate applies a metadata payload to a stored podcast. Identity
// fields in the payload are ignored.
// PUT /api/v1/podcasts/:id
func PutUpdate(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseInt64Param(c, "id")
		if !ok {
			return
		}

		var payload updateRequest
		if !types.BindJSONOrError(c, &payload) {
			return
		}

		podcast, err := deps.PodcastService.UpdateFromMap(c.Request.Context(), id, payload.Podcast)
		if err != nil {
			var verrs *record.ValidationErrors
			var ferr record.FieldError
			switch {
			case podcasts.IsNotFound(err):
				types.SendNotFound(c, "podcast not found")
			case errors.As(err, &verrs):
				types.SendUnprocessable(c, "podcast payload failed validation", verrs.Error())
			case errors.As(err, &ferr):
				types.SendBadRequest(c, ferr.Error())
			default:
				types.SendInternalError(c, "failed to update podcast")
			}
			return
		}

		types.SendSuccess(c, types.SinglePodcastResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "podcast updated"},
			Podcast:      podcast,
		})
	}
}
