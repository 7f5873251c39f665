package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/stationhq/media-api/api/health"
	"github.com/stationhq/media-api/api/playlists"
	"github.com/stationhq/media-api/api/podcasts"
	"github.com/stationhq/media-api/api/types"
	"github.com/stationhq/media-api/api/version"
	"github.com/stationhq/media-api/internal/record"
	"github.com/stationhq/media-api/internal/services/feeds"
	playlistsService "github.com/stationhq/media-api/internal/services/playlists"
	podcastsService "github.com/stationhq/media-api/internal/services/podcasts"
	"github.com/stationhq/media-api/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")

	// Load config for API routes
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize services if not already set
	if deps == nil {
		deps = &types.Dependencies{}
	}

	if deps.DB != nil && deps.DB.DB != nil {
		if deps.Session == nil {
			deps.Session = record.NewSession(deps.DB.DB)
		}
		if deps.PodcastService == nil {
			initializePodcastService(deps, cfg)
		}
		if deps.PlaylistService == nil {
			deps.PlaylistService = playlistsService.NewService(deps.Session)
		}

		importMiddleware := ImportRateLimit(rateLimiters, cleanupStop, cleanupInitialized)

		podcastGroup := v1.Group("/podcasts")
		podcastGroup.Use(GeneralRateLimit(rateLimiters, cleanupStop, cleanupInitialized))
		podcasts.RegisterRoutes(podcastGroup, deps, importMiddleware)

		playlistGroup := v1.Group("/playlists")
		playlistGroup.Use(GeneralRateLimit(rateLimiters, cleanupStop, cleanupInitialized))
		playlists.RegisterRoutes(playlistGroup, deps)
	}

	return nil
}

// initializePodcastService creates and configures the podcast service
func initializePodcastService(deps *types.Dependencies, cfg *config.Config) {
	fetcher := feeds.NewClient(feeds.Config{
		Timeout:   cfg.Feed.Timeout,
		UserAgent: cfg.Feed.UserAgent,
	})

	deps.PodcastService = podcastsService.NewService(deps.Session, fetcher, cfg.Podcasts.MaxCount)
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
