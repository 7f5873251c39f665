package podcasts

import (
	"errors"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/stationhq/media-api/api/types"
	"github.com/stationhq/media-api/internal/services/podcasts"
)

// PostImport imports a podcast from its feed URL
// POST /api/v1/podcasts
// Body: {"url": "feed_url", "owner_id": 0}
func PostImport(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			URL     string `json:"url" binding:"required"`
			OwnerID int64  `json:"owner_id"`
		}

		if err := c.ShouldBindJSON(&request); err != nil {
			types.SendBadRequest(c, "invalid request body, 'url' field is required")
			return
		}

		parsed, err := url.Parse(request.URL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			types.SendBadRequest(c, "invalid feed URL format")
			return
		}

		podcast, err := deps.PodcastService.CreateFromFeed(c.Request.Context(), request.URL, request.OwnerID)
		if err != nil {
			switch {
			case errors.Is(err, podcasts.ErrLimitReached):
				types.SendConflict(c, err.Error())
			case errors.Is(err, podcasts.ErrInvalidSource):
				types.SendUnprocessable(c, "podcast source could not be fetched or parsed", err.Error())
			default:
				types.SendInternalError(c, "failed to import podcast")
			}
			return
		}

		types.SendCreated(c, types.SinglePodcastResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "podcast imported"},
			Podcast:      podcast,
		})
	}
}
