package engine

import (
	"testing"
	"time"

	"github.com/vsradar/vsradar/pkg/source"
)

func entry(title, publisher string, at time.Time) source.NewsEntry {
	return source.NewsEntry{Title: title, Publisher: publisher, PublishedAt: at}
}

func TestClusterEntriesMerges(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	clusters := ClusterEntries([]source.NewsEntry{
		entry("Big Storm Hits Coast", "BBC", base),
		entry("Big storm hits coast!", "Reuters", base.Add(time.Hour)),
		entry("BIG STORM HITS COAST", "BBC", base.Add(30*time.Minute)),
		entry("Something else entirely", "BBC", base),
	})

	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}

	storm := clusters[0]
	if storm.Mentions != 3 {
		t.Errorf("mentions = %d, want 3", storm.Mentions)
	}
	if storm.UniqueSources() != 2 {
		t.Errorf("unique sources = %d, want 2", storm.UniqueSources())
	}
	// The newest phrasing wins representative title.
	if storm.Title != "Big storm hits coast!" {
		t.Errorf("title = %q, want newest phrasing", storm.Title)
	}
	if !storm.PublishedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("publishedAt = %v, want latest", storm.PublishedAt)
	}
}

func TestClusterEntriesDropsEmptyKeys(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	clusters := ClusterEntries([]source.NewsEntry{
		entry("?!?!", "BBC", base),
		entry("", "BBC", base),
		entry("Real headline", "BBC", base),
	})
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	if clusters[0].Title != "Real headline" {
		t.Errorf("unexpected cluster %q", clusters[0].Title)
	}
}

func TestClusterEntriesEmptyPublisherFloor(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	clusters := ClusterEntries([]source.NewsEntry{
		entry("Anonymous scoop", "", base),
		entry("Anonymous scoop", "", base),
	})
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	c := clusters[0]
	if c.Mentions != 2 {
		t.Errorf("mentions = %d, want 2", c.Mentions)
	}
	// All-empty publisher set still counts as one source.
	if c.UniqueSources() != 1 {
		t.Errorf("unique sources = %d, want floor of 1", c.UniqueSources())
	}
}

func TestClusterEntriesPreservesFirstAppearanceOrder(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	clusters := ClusterEntries([]source.NewsEntry{
		entry("alpha story", "A", base),
		entry("beta story", "B", base),
		entry("gamma story", "C", base),
		entry("alpha story", "D", base),
	})
	want := []string{"alpha story", "beta story", "gamma story"}
	if len(clusters) != len(want) {
		t.Fatalf("expected %d clusters, got %d", len(want), len(clusters))
	}
	for i, key := range want {
		if clusters[i].Key != key {
			t.Errorf("clusters[%d].Key = %q, want %q", i, clusters[i].Key, key)
		}
	}
}

func TestClusterEntriesDuplicatePublisherMentions(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	clusters := ClusterEntries([]source.NewsEntry{
		entry("same feed spam", "Feed", base),
		entry("same feed spam", "Feed", base),
		entry("same feed spam", "Feed", base),
	})
	c := clusters[0]
	if c.Mentions != 3 {
		t.Errorf("mentions = %d, want 3 (duplicate publishers still count)", c.Mentions)
	}
	if c.UniqueSources() != 1 {
		t.Errorf("unique sources = %d, want 1", c.UniqueSources())
	}
}
