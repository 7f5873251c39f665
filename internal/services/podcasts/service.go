package podcasts

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mmcdole/gofeed"

	"github.com/stationhq/media-api/internal/models"
	"github.com/stationhq/media-api/internal/record"
	"github.com/stationhq/media-api/internal/services/feeds"
)

// serverOwnedFields are stripped from caller-supplied update payloads
// regardless of input.
var serverOwnedFields = []string{"id", "url", "type", "owner"}

type Service struct {
	sess     *record.Session
	feed     feeds.Fetcher
	maxCount int
}

// NewService wires the podcast service onto a store session and a feed
// fetcher. maxCount caps how many podcasts the station may hold; 0
// disables the limit.
func NewService(sess *record.Session, fetcher feeds.Fetcher, maxCount int) PodcastService {
	return &Service{
		sess:     sess,
		feed:     fetcher,
		maxCount: maxCount,
	}
}

// CreateFromFeed imports a podcast from its feed URL. The count limit is
// enforced before any network fetch; a feed that cannot be fetched or
// parsed fails with ErrInvalidSource and leaves the store unchanged.
func (s *Service) CreateFromFeed(ctx context.Context, url string, ownerID int64) (map[string]any, error) {
	if s.maxCount > 0 {
		n, err := record.Count(ctx, s.sess, models.Podcast)
		if err != nil {
			return nil, fmt.Errorf("counting podcasts: %w", err)
		}
		if n >= int64(s.maxCount) {
			return nil, LimitReachedError{Limit: s.maxCount}
		}
	}

	feed, err := s.feed.Fetch(ctx, url)
	if err != nil {
		return nil, InvalidSourceError{URL: url, Err: err}
	}

	p := record.New(models.Podcast)
	data := podcastDataFromFeed(feed)
	data["url"] = url
	truncateToSchema(models.Podcast, data)
	if err := p.FromMap(data, record.KeyColumnName); err != nil {
		return nil, err
	}

	s.attachOwner(ctx, p, ownerID)

	if _, err := p.Save(ctx, s.sess); err != nil {
		return nil, fmt.Errorf("storing podcast: %w", err)
	}

	marker := record.New(models.ImportedPodcast)
	if err := marker.Set("autoIngest", false); err != nil {
		return nil, err
	}
	if err := marker.SetRelated("podcastId", p); err != nil {
		return nil, err
	}
	if _, err := marker.Save(ctx, s.sess); err != nil {
		// Partial creation: the podcast row landed but the marker did
		// not. Delete the podcast before re-raising.
		if delErr := p.Delete(ctx, s.sess); delErr != nil {
			log.Printf("[ERROR] Failed to clean up podcast %d after marker failure: %v", p.ID(), delErr)
		}
		return nil, fmt.Errorf("storing imported podcast marker: %w", err)
	}

	log.Printf("[INFO] Imported podcast %d: %s", p.ID(), p.GetString("title"))

	out := p.ToMap(record.KeyColumnName, false)
	episodes, err := s.mergeFeedEpisodes(ctx, p.ID(), feed)
	if err != nil {
		return nil, err
	}
	out["episodes"] = episodes
	return out, nil
}

// GetByID returns one podcast with its stored episode list.
func (s *Service) GetByID(ctx context.Context, id int64) (map[string]any, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := p.ToMap(record.KeyColumnName, false)
	stored, err := record.FindWhere(ctx, s.sess, models.PodcastEpisode, "podcast_id", id)
	if err != nil {
		return nil, err
	}
	episodes := make([]map[string]any, 0, len(stored))
	for _, ep := range stored {
		episodes = append(episodes, storedEpisodeMap(ep))
	}
	out["episodes"] = episodes
	return out, nil
}

// List returns every stored podcast without episode lists.
func (s *Service) List(ctx context.Context) ([]map[string]any, error) {
	recs, err := record.FindAll(ctx, s.sess, models.Podcast)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(recs))
	for _, p := range recs {
		out = append(out, p.ToMap(record.KeyColumnName, false))
	}
	return out, nil
}

// UpdateFromMap applies a caller-supplied payload to a stored podcast.
// Server-owned fields are stripped and oversized values truncated before
// any mutation; the remaining fields flow through the record setters so
// dirty tracking decides what is written.
func (s *Service) UpdateFromMap(ctx context.Context, id int64, data map[string]any) (map[string]any, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, key := range serverOwnedFields {
		delete(data, key)
	}
	truncateToSchema(models.Podcast, data)

	if err := p.FromMap(data, record.KeyColumnName); err != nil {
		return nil, err
	}
	if _, err := p.Save(ctx, s.sess); err != nil {
		return nil, fmt.Errorf("updating podcast %d: %w", id, err)
	}
	return s.GetByID(ctx, id)
}

// DeleteByID removes a podcast along with its marker and episode rows.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	p, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	dependents := []*record.Schema{models.ImportedPodcast, models.PodcastEpisode}
	for _, schema := range dependents {
		rows, err := record.FindWhere(ctx, s.sess, schema, "podcast_id", id)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if err := row.Delete(ctx, s.sess); err != nil {
				return err
			}
		}
	}
	if err := p.Delete(ctx, s.sess); err != nil {
		return err
	}
	log.Printf("[INFO] Deleted podcast %d", id)
	return nil
}

func (s *Service) find(ctx context.Context, id int64) (*record.Record, error) {
	p, err := record.FindByID(ctx, s.sess, models.Podcast, id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return nil, fmt.Errorf("podcast %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

// attachOwner links the owner record when it can be loaded. Lookup
// failures are logged and degrade to a null owner rather than failing the
// import.
func (s *Service) attachOwner(ctx context.Context, p *record.Record, ownerID int64) {
	if ownerID == 0 {
		return
	}
	owner, err := record.FindByID(ctx, s.sess, models.Subject, ownerID)
	if err != nil {
		log.Printf("[WARN] Owner %d lookup failed, importing without owner: %v", ownerID, err)
		return
	}
	if err := p.SetRelated("owner", owner); err != nil {
		log.Printf("[WARN] Attaching owner %d failed, importing without owner: %v", ownerID, err)
	}
}

// mergeFeedEpisodes enumerates the feed's entries and marks the ones whose
// GUID already has a stored episode row.
func (s *Service) mergeFeedEpisodes(ctx context.Context, podcastID int64, feed *gofeed.Feed) ([]map[string]any, error) {
	stored, err := record.FindWhere(ctx, s.sess, models.PodcastEpisode, "podcast_id", podcastID)
	if err != nil {
		return nil, err
	}
	ingested := make(map[string]bool, len(stored))
	for _, ep := range stored {
		ingested[ep.GetString("episodeGuid")] = true
	}

	episodes := make([]map[string]any, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		episodes = append(episodes, episodeFromItem(item, ingested[item.GUID]))
	}
	return episodes, nil
}
