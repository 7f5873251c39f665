package podcasts

import (
	"github.com/gin-gonic/gin"

	"github.com/stationhq/media-api/api/types"
)

// GetList returns every stored podcast
// GET /api/v1/podcasts
func GetList(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := deps.PodcastService.List(c.Request.Context())
		if err != nil {
			types.SendInternalError(c, "failed to list podcasts")
			return
		}

		types.SendSuccess(c, types.PodcastsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Podcasts:     list,
			Count:        len(list),
		})
	}
}
