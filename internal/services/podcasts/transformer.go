package podcasts

import (
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/stationhq/media-api/internal/record"
)

// pubDateLayout is the wire format for episode publication dates.
const pubDateLayout = "2006-01-02 15:04:05"

// podcastDataFromFeed maps the parsed feed's channel-level metadata to a
// column-keyed value map, itunes extension block included.
func podcastDataFromFeed(feed *gofeed.Feed) map[string]any {
	data := map[string]any{
		"title":       feed.Title,
		"description": feed.Description,
		"link":        feed.Link,
		"language":    feed.Language,
		"copyright":   feed.Copyright,
	}
	if len(feed.Authors) > 0 && feed.Authors[0] != nil {
		data["creator"] = feed.Authors[0].Name
	}
	if len(feed.Categories) > 0 {
		data["itunes_category"] = strings.Join(feed.Categories, ", ")
	}
	if ext := feed.ITunesExt; ext != nil {
		data["itunes_author"] = ext.Author
		data["itunes_keywords"] = ext.Keywords
		data["itunes_summary"] = ext.Summary
		data["itunes_subtitle"] = ext.Subtitle
		data["itunes_explicit"] = ext.Explicit
		if len(ext.Categories) > 0 && ext.Categories[0] != nil {
			data["itunes_category"] = ext.Categories[0].Text
		}
	}
	return data
}

// episodeFromItem shapes one feed entry for the import response. The
// ingested flag tells whether a row with the same GUID is already stored.
func episodeFromItem(item *gofeed.Item, ingested bool) map[string]any {
	ep := map[string]any{
		"guid":        item.GUID,
		"ingested":    ingested,
		"title":       item.Title,
		"author":      itemAuthor(item),
		"description": item.Description,
		"pub_date":    "",
		"link":        item.Link,
		"enclosure":   nil,
	}
	if item.PublishedParsed != nil {
		ep["pub_date"] = item.PublishedParsed.UTC().Format(pubDateLayout)
	}
	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		enc := item.Enclosures[0]
		ep["enclosure"] = map[string]any{
			"url":    enc.URL,
			"type":   enc.Type,
			"length": enc.Length,
		}
	}
	return ep
}

func itemAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		if item.Authors[0].Email != "" {
			return item.Authors[0].Email
		}
		return item.Authors[0].Name
	}
	return ""
}

// storedEpisodeMap shapes a persisted podcast_episodes record the same way
// feed entries are shaped, so GetByID and import responses agree.
func storedEpisodeMap(ep *record.Record) map[string]any {
	out := map[string]any{
		"guid":        ep.GetString("episodeGuid"),
		"ingested":    true,
		"title":       ep.GetString("episodeTitle"),
		"author":      "",
		"description": ep.GetString("episodeDescription"),
		"pub_date":    "",
		"link":        "",
		"enclosure":   map[string]any{"url": ep.GetString("downloadUrl")},
	}
	if t := ep.GetTime("publicationDate"); !t.IsZero() {
		out["pub_date"] = t.UTC().Format(pubDateLayout)
	}
	return out
}

// truncateToSchema trims every string value whose field declares a maximum
// size down to that size. Truncation is corrective, never an error.
func truncateToSchema(schema *record.Schema, data map[string]any) {
	for key, v := range data {
		f, ok := schema.FieldByKey(key, record.KeyColumnName)
		if !ok || f.Size <= 0 {
			continue
		}
		if s, ok := v.(string); ok && len(s) > f.Size {
			data[key] = s[:f.Size]
		}
	}
}
