package engine

import (
	"time"

	"github.com/vsradar/vsradar/pkg/source"
)

// Cluster is a group of raw headlines judged duplicates by normalized
// title key. It lives for one ranked-list build and is then discarded.
type Cluster struct {
	Key         string
	Title       string // most recently published phrasing seen
	PublishedAt time.Time
	Publishers  map[string]bool
	Mentions    int
}

// UniqueSources counts distinct non-empty publishers, floored at 1 so
// an all-anonymous cluster doesn't collapse its score.
func (c *Cluster) UniqueSources() int {
	n := 0
	for p := range c.Publishers {
		if p != "" {
			n++
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}

// ClusterEntries groups raw headlines by clustering key. Entries whose
// titles normalize to nothing are dropped. The returned slice preserves
// first-appearance order, which downstream ranking uses to break score
// ties.
func ClusterEntries(entries []source.NewsEntry) []*Cluster {
	byKey := make(map[string]*Cluster)
	var ordered []*Cluster

	for _, e := range entries {
		key := NormalizeTitle(e.Title)
		if key == "" {
			continue
		}

		c, ok := byKey[key]
		if !ok {
			c = &Cluster{
				Key:         key,
				Title:       e.Title,
				PublishedAt: e.PublishedAt,
				Publishers:  map[string]bool{e.Publisher: true},
				Mentions:    1,
			}
			byKey[key] = c
			ordered = append(ordered, c)
			continue
		}

		c.Mentions++
		c.Publishers[e.Publisher] = true
		// The displayed title tracks the newest phrasing; on equal
		// timestamps the last writer wins.
		if e.PublishedAt.After(c.PublishedAt) || e.PublishedAt.Equal(c.PublishedAt) {
			c.Title = e.Title
			c.PublishedAt = e.PublishedAt
		}
	}

	return ordered
}
