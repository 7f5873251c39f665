package playlists

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/stationhq/media-api/internal/models"
	"github.com/stationhq/media-api/internal/record"
)

type Service struct {
	sess *record.Session
}

// NewService wires the playlist service onto a store session.
func NewService(sess *record.Session) PlaylistService {
	return &Service{sess: sess}
}

// CreateRule stores a new rule under an existing playlist. The playlist
// must exist; the playlist_id in the payload, if any, is ignored in
// favour of the path parameter.
func (s *Service) CreateRule(ctx context.Context, playlistID int64, data map[string]any) (map[string]any, error) {
	playlist, err := s.findPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	rule := record.New(models.PlaylistRule)
	delete(data, "id")
	delete(data, "playlist_id")
	if err := rule.FromMap(data, record.KeyColumnName); err != nil {
		return nil, err
	}
	if err := rule.SetRelated("playlistId", playlist); err != nil {
		return nil, err
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if _, err := rule.Save(ctx, s.sess); err != nil {
		return nil, fmt.Errorf("storing playlist rule: %w", err)
	}
	log.Printf("[INFO] Created rule %d for playlist %d", rule.ID(), playlistID)
	return rule.ToMap(record.KeyColumnName, false), nil
}

// ListRules returns every rule stored for one playlist.
func (s *Service) ListRules(ctx context.Context, playlistID int64) ([]map[string]any, error) {
	if _, err := s.findPlaylist(ctx, playlistID); err != nil {
		return nil, err
	}
	rules, err := record.FindWhere(ctx, s.sess, models.PlaylistRule, "playlist_id", playlistID)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rules))
	for _, rule := range rules {
		out = append(out, rule.ToMap(record.KeyColumnName, false))
	}
	return out, nil
}

// UpdateRule applies a payload to a stored rule. The rule's identity and
// playlist linkage are not updatable.
func (s *Service) UpdateRule(ctx context.Context, ruleID int64, data map[string]any) (map[string]any, error) {
	rule, err := s.findRule(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	delete(data, "id")
	delete(data, "playlist_id")
	if err := rule.FromMap(data, record.KeyColumnName); err != nil {
		return nil, err
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if _, err := rule.Save(ctx, s.sess); err != nil {
		return nil, fmt.Errorf("updating playlist rule %d: %w", ruleID, err)
	}
	return rule.ToMap(record.KeyColumnName, false), nil
}

// DeleteRule removes one stored rule.
func (s *Service) DeleteRule(ctx context.Context, ruleID int64) error {
	rule, err := s.findRule(ctx, ruleID)
	if err != nil {
		return err
	}
	if err := rule.Delete(ctx, s.sess); err != nil {
		return err
	}
	log.Printf("[INFO] Deleted playlist rule %d", ruleID)
	return nil
}

func (s *Service) findPlaylist(ctx context.Context, id int64) (*record.Record, error) {
	p, err := record.FindByID(ctx, s.sess, models.Playlist, id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return nil, fmt.Errorf("playlist %d: %w", id, ErrPlaylistNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) findRule(ctx context.Context, id int64) (*record.Record, error) {
	rule, err := record.FindByID(ctx, s.sess, models.PlaylistRule, id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return nil, fmt.Errorf("playlist rule %d: %w", id, ErrRuleNotFound)
		}
		return nil, err
	}
	return rule, nil
}
