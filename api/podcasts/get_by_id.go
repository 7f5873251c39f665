package podcasts

import (
	"github.com/gin-gonic/gin"

	"github.com/stationhq/media-api/api/types"
	"github.com/stationhq/media-api/internal/services/podcasts"
)

// GetByID returns one podcast with its stored episodes
// GET /api/v1/podcasts/:id
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseInt64Param(c, "id")
		if !ok {
			return
		}

		podcast, err := deps.PodcastService.GetByID(c.Request.Context(), id)
		if err != nil {
			if podcasts.IsNotFound(err) {
				types.SendNotFound(c, "podcast not found")
				return
			}
			types.SendInternalError(c, "failed to load podcast")
			return
		}

		types.SendSuccess(c, types.SinglePodcastResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Podcast:      podcast,
		})
	}
}
