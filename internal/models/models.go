// Package models declares the table schemas as data. There is one
// record.Schema value per table; no generated per-table classes exist
// behind them.
package models

import "github.com/stationhq/media-api/internal/record"

// Subject is the owner/user table referenced by podcasts.
var Subject = record.NewSchema("cc_subjs", []record.Field{
	{Name: "id", Type: record.TypeInt, PrimaryKey: true},
	{Name: "login", Type: record.TypeString, Size: 255, Required: true},
})

// Podcast is the top-level media item imported from an RSS/Atom feed.
var Podcast = record.NewSchema("podcast", []record.Field{
	{Name: "id", Type: record.TypeInt, PrimaryKey: true},
	{Name: "url", Type: record.TypeString, Size: 4096, Required: true},
	{Name: "title", Type: record.TypeString, Size: 255, Required: true},
	{Name: "creator", Type: record.TypeString, Size: 255},
	{Name: "description", Type: record.TypeString},
	{Name: "language", Type: record.TypeString, Size: 255},
	{Name: "copyright", Type: record.TypeString, Size: 255},
	{Name: "link", Type: record.TypeString, Size: 255},
	{Name: "itunesAuthor", Type: record.TypeString, Size: 255},
	{Name: "itunesKeywords", Type: record.TypeString, Size: 4096},
	{Name: "itunesSummary", Type: record.TypeString},
	{Name: "itunesSubtitle", Type: record.TypeString, Size: 255},
	{Name: "itunesCategory", Type: record.TypeString, Size: 255},
	{Name: "itunesExplicit", Type: record.TypeString, Size: 255},
	{Name: "owner", Type: record.TypeInt, References: Subject},
})

// ImportedPodcast is the marker row created alongside every imported
// podcast; auto-ingest state hangs off it.
var ImportedPodcast = record.NewSchema("imported_podcast", []record.Field{
	{Name: "id", Type: record.TypeInt, PrimaryKey: true},
	{Name: "autoIngest", Type: record.TypeBool},
	{Name: "autoIngestTimestamp", Type: record.TypeTime},
	{Name: "podcastId", Column: "podcast_id", Type: record.TypeInt, References: Podcast, Required: true},
})

// PodcastEpisode tracks which feed entries have been ingested, matched by
// the entry's stable GUID.
var PodcastEpisode = record.NewSchema("podcast_episodes", []record.Field{
	{Name: "id", Type: record.TypeInt, PrimaryKey: true},
	{Name: "podcastId", Column: "podcast_id", Type: record.TypeInt, References: Podcast, Required: true},
	{Name: "publicationDate", Type: record.TypeTime},
	{Name: "downloadUrl", Column: "download_url", Type: record.TypeString, Size: 4096},
	{Name: "episodeGuid", Column: "episode_guid", Type: record.TypeString, Size: 4096},
	{Name: "episodeTitle", Column: "episode_title", Type: record.TypeString, Size: 4096},
	{Name: "episodeDescription", Column: "episode_description", Type: record.TypeString},
})

// Playlist is the media container playlist rules attach to.
var Playlist = record.NewSchema("cc_playlist", []record.Field{
	{Name: "id", Type: record.TypeInt, PrimaryKey: true},
	{Name: "name", Type: record.TypeString, Size: 255, Required: true},
	{Name: "description", Type: record.TypeString, Size: 512},
})

// PlaylistRule is one smart-block criteria row.
var PlaylistRule = record.NewSchema("cc_playlistcriteria", []record.Field{
	{Name: "id", Type: record.TypeInt, PrimaryKey: true},
	{Name: "criteria", Type: record.TypeString, Size: 32, Required: true},
	{Name: "modifier", Type: record.TypeString, Size: 16, Required: true},
	{Name: "value", Type: record.TypeString, Size: 512},
	{Name: "extra", Type: record.TypeString, Size: 512},
	{Name: "playlistId", Column: "playlist_id", Type: record.TypeInt, References: Playlist, Required: true},
})

// All lists every schema the migrator provisions.
var All = []*record.Schema{
	Subject,
	Podcast,
	ImportedPodcast,
	PodcastEpisode,
	Playlist,
	PlaylistRule,
}
