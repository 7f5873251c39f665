package types

import (
	"github.com/stationhq/media-api/internal/database"
	"github.com/stationhq/media-api/internal/record"
	"github.com/stationhq/media-api/internal/services/playlists"
	"github.com/stationhq/media-api/internal/services/podcasts"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB              *database.DB
	Session         *record.Session
	PodcastService  podcasts.PodcastService
	PlaylistService playlists.PlaylistService
}
