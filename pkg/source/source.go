package source

import (
	"context"
	"time"
)

// Video is one entry in the daily shorts rotation. The whole set is
// replaced wholesale at every epoch rollover; within an epoch a Video
// is immutable.
type Video struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	ThumbURL  string    `json:"thumb_url"`
	FirstSeen time.Time `json:"first_seen"`
}

// NewsEntry is a single raw headline pulled from a feed. Entries are
// transient: they live only long enough to be clustered.
type NewsEntry struct {
	Title       string
	Publisher   string // may be empty when the feed doesn't identify itself
	Link        string
	PublishedAt time.Time
}

// VideoSource supplies the daily video set. Called by the engine on
// startup and on epoch rollover.
type VideoSource interface {
	FetchDaily(ctx context.Context, limit int) ([]Video, error)
}

// NewsSource supplies raw headlines. Called by the engine's news cache
// producer once per TTL cycle.
type NewsSource interface {
	FetchEntries(ctx context.Context) ([]NewsEntry, error)
}
