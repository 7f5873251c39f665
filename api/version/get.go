package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Get handles version requests
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Station Media API",
			"version":     "1.0.0",
			"description": "API for managing station media and podcast feeds",
			"status":      "running",
		})
	}
}
