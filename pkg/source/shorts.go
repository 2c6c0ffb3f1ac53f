package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"time"
)

// DefaultShortsPages are the listing pages harvested for video IDs when
// no pages are configured.
var DefaultShortsPages = []string{
	"https://www.youtube.com/shorts",
	"https://www.youtube.com/results?search_query=viral+shorts",
	"https://www.youtube.com/results?search_query=trending+shorts",
	"https://www.youtube.com/results?search_query=meme+shorts",
}

// Shorts video IDs are 11 chars of base64url embedded in /shorts/ links.
var shortsIDPattern = regexp.MustCompile(`/shorts/([a-zA-Z0-9_-]{11})`)

// Shorts harvests the daily video set by scraping shorts listing pages.
type Shorts struct {
	client *http.Client
	pages  []string
}

// NewShorts creates a shorts collector over the given listing pages.
func NewShorts(pages []string) *Shorts {
	if len(pages) == 0 {
		pages = DefaultShortsPages
	}
	return &Shorts{
		client: &http.Client{Timeout: 10 * time.Second},
		pages:  pages,
	}
}

// FetchDaily scrapes pages in order until limit distinct video IDs are
// collected. Pages that fail to fetch are skipped; the harvest may come
// up short or empty, which the caller decides how to handle.
func (s *Shorts) FetchDaily(ctx context.Context, limit int) ([]Video, error) {
	if limit <= 0 {
		limit = 12
	}

	seen := make(map[string]bool)
	var ids []string

	for _, page := range s.pages {
		html, err := s.fetchPage(ctx, page)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  shorts page %s error: %v\n", page, err)
			continue
		}
		for _, m := range shortsIDPattern.FindAllStringSubmatch(html, -1) {
			id := m[1]
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
			if len(ids) >= limit {
				break
			}
		}
		if len(ids) >= limit {
			break
		}
	}

	now := time.Now().UTC()
	videos := make([]Video, 0, len(ids))
	for _, id := range ids {
		videos = append(videos, Video{
			ID:        id,
			URL:       fmt.Sprintf("https://www.youtube.com/shorts/%s", id),
			ThumbURL:  fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", id),
			FirstSeen: now,
		})
	}
	return videos, nil
}

func (s *Shorts) fetchPage(ctx context.Context, page string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page, nil)
	if err != nil {
		return "", fmt.Errorf("create shorts request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch shorts page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("shorts page status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read shorts page: %w", err)
	}
	return string(body), nil
}

// ExtractVideoIDs returns the distinct shorts video IDs found in html,
// in order of first appearance.
func ExtractVideoIDs(html string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, m := range shortsIDPattern.FindAllStringSubmatch(html, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	return ids
}
