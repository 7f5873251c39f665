package podcasts

import (
	"github.com/gin-gonic/gin"

	"github.com/stationhq/media-api/api/types"
	"github.com/stationhq/media-api/internal/services/podcasts"
)

// Delete removes a podcast and its dependent rows
// DELETE /api/v1/podcasts/:id
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseInt64Param(c, "id")
		if !ok {
			return
		}

		if err := deps.PodcastService.DeleteByID(c.Request.Context(), id); err != nil {
			if podcasts.IsNotFound(err) {
				types.SendNotFound(c, "podcast not found")
				return
			}
			types.SendInternalError(c, "failed to delete podcast")
			return
		}

		types.SendNoContent(c)
	}
}
