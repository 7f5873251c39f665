package playlists

import "context"

// PlaylistService defines the business logic interface for playlist rule
// operations. Rules select media for a playlist by criteria, modifier and
// value; responses are column-keyed maps.
type PlaylistService interface {
	CreateRule(ctx context.Context, playlistID int64, data map[string]any) (map[string]any, error)
	ListRules(ctx context.Context, playlistID int64) ([]map[string]any, error)
	UpdateRule(ctx context.Context, ruleID int64, data map[string]any) (map[string]any, error)
	DeleteRule(ctx context.Context, ruleID int64) error
}
