package source

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mmcdole/gofeed"
)

// Feed is a named RSS/Atom feed URL.
type Feed struct {
	Name string
	URL  string
}

// RSS pulls raw headlines from a set of syndicated feeds.
type RSS struct {
	client *http.Client
	parser *gofeed.Parser
	feeds  []Feed
	filter *Filter
}

// NewRSS creates an RSS collector. filter may be nil.
func NewRSS(feeds []Feed, filter *Filter) *RSS {
	return &RSS{
		client: &http.Client{Timeout: 30 * time.Second},
		parser: gofeed.NewParser(),
		feeds:  feeds,
		filter: filter,
	}
}

// FetchEntries collects headlines from every configured feed. A feed
// that fails is logged and skipped; only a total failure of all feeds
// surfaces as an empty result.
func (r *RSS) FetchEntries(ctx context.Context) ([]NewsEntry, error) {
	var all []NewsEntry

	for _, feed := range r.feeds {
		entries, err := r.collectFeed(ctx, feed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  rss feed %s error: %v\n", feed.Name, err)
			continue
		}
		all = append(all, entries...)
	}

	return all, nil
}

func (r *RSS) collectFeed(ctx context.Context, feed Feed) ([]NewsEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create rss request %s: %w", feed.Name, err)
	}
	req.Header.Set("User-Agent", "vsradar/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rss %s: %w", feed.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rss %s status %d", feed.Name, resp.StatusCode)
	}

	parsed, err := r.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse rss %s: %w", feed.Name, err)
	}

	publisher := feed.Name
	if publisher == "" {
		publisher = parsed.Title
	}

	var entries []NewsEntry
	cutoff := time.Now().Add(-24 * time.Hour)

	for _, item := range parsed.Items {
		published := time.Now().UTC()
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		} else if item.UpdatedParsed != nil {
			published = item.UpdatedParsed.UTC()
		}

		// Yesterday's news never ranks; drop it at the source.
		if published.Before(cutoff) {
			continue
		}

		if r.filter != nil && r.filter.Excluded(item.Title) {
			continue
		}

		link := item.Link
		if link == "" && len(item.Links) > 0 {
			link = item.Links[0]
		}

		entries = append(entries, NewsEntry{
			Title:       item.Title,
			Publisher:   publisher,
			Link:        link,
			PublishedAt: published,
		})
	}

	return entries, nil
}
