// Package feeds wraps the third-party RSS/Atom parser behind a small
// fetcher interface so services can be tested against canned feeds.
package feeds

import (
	"context"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// Fetcher retrieves and parses a feed by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*gofeed.Feed, error)
}

// Client is the production Fetcher backed by gofeed over net/http.
type Client struct {
	parser *gofeed.Parser
}

// Config holds configuration for the feed client
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// NewClient creates a new feed client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "station-media-api/1.0"
	}

	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: cfg.Timeout}
	parser.UserAgent = cfg.UserAgent

	return &Client{parser: parser}
}

// Fetch retrieves the feed and parses it. The returned error covers both
// unreachable sources and unparsable documents; callers decide how to
// classify it.
func (c *Client) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	return c.parser.ParseURLWithContext(url, ctx)
}
