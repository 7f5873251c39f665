package playlists

import (
	"github.com/gin-gonic/gin"

	"github.com/stationhq/media-api/api/types"
)

// RegisterRoutes registers playlist rule routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("/:id/rules", GetRules(deps))
	router.POST("/:id/rules", PostRule(deps))
	router.PUT("/:id/rules/:rule_id", PutRule(deps))
	router.DELETE("/:id/rules/:rule_id", DeleteRule(deps))
}
