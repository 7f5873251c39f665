package podcasts

import (
	"github.com/gin-gonic/gin"

	"github.com/stationhq/media-api/api/types"
)

// RegisterRoutes registers podcast routes
// Rate limiting is applied at the route registration level
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, importMiddleware gin.HandlerFunc) {
	// POST /api/v1/podcasts - Import a podcast from its feed URL
	router.POST("", importMiddleware, PostImport(deps))

	// GET /api/v1/podcasts - List stored podcasts
	router.GET("", GetList(deps))

	// GET /api/v1/podcasts/:id - Get one podcast with episodes
	router.GET("/:id", GetByID(deps))

	// PUT /api/v1/podcasts/:id - Update podcast metadata
	router.PUT("/:id", PutUpdate(deps))

	// DELETE /api/v1/podcasts/:id - Remove a podcast
	router.DELETE("/:id", Delete(deps))
}
