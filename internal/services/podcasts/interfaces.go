package podcasts

import "context"

// PodcastService defines the business logic interface for podcast
// operations. Responses are column-keyed maps; imported podcasts carry an
// "episodes" list merged with ingestion state.
type PodcastService interface {
	// Import a feed and persist the podcast plus its imported marker.
	CreateFromFeed(ctx context.Context, url string, ownerID int64) (map[string]any, error)

	// Read
	GetByID(ctx context.Context, id int64) (map[string]any, error)
	List(ctx context.Context) ([]map[string]any, error)

	// Apply a caller-supplied update payload; server-owned fields are
	// stripped before anything is mutated.
	UpdateFromMap(ctx context.Context, id int64, data map[string]any) (map[string]any, error)

	DeleteByID(ctx context.Context, id int64) error
}
