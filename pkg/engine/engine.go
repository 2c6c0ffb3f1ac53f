package engine

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/vsradar/vsradar/internal/archive"
	"github.com/vsradar/vsradar/pkg/alert"
	"github.com/vsradar/vsradar/pkg/source"
)

// Account is one user's daily game state: a spendable points balance
// and per-video boost counts. Accounts are created lazily and cleared
// at epoch rollover.
type Account struct {
	Points int            `json:"points"`
	Boosts map[string]int `json:"boosts"`
}

// RankedVideo is one row of the community feed.
type RankedVideo struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	ThumbURL    string  `json:"thumb_url"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"`
	MyBoosts    int     `json:"my_boosts"`
	TotalBoosts int     `json:"total_boosts"`
}

// RankedStory is one row of the trending headlines list.
type RankedStory struct {
	Title       string  `json:"title"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"`
	SourceCount int     `json:"source_count"`
	Mentions    int     `json:"mentions"`
	SearchQuery string  `json:"search_query"`
}

// Stats summarizes the current epoch.
type Stats struct {
	FeedSize    int       `json:"feed_size"`
	TotalBoosts int       `json:"total_boosts"`
	Visitors    int       `json:"visitors"`
	ResetAt     time.Time `json:"reset_at"`
}

// Engine owns all per-epoch mutable state: the daily video set, the
// boost ledger and accounts, the visitor set and the epoch boundary.
// One mutex guards everything so the four-way rollover reset is a
// single critical section. There is no background timer; rollover is
// detected lazily at the start of every operation.
type Engine struct {
	videoSrc source.VideoSource
	newsSrc  source.NewsSource
	history  archive.Store  // optional, nil disables
	alerts   *alert.Manager // optional, nil disables
	now      func() time.Time

	newsCache *Cache[RankedStory]

	mu         sync.Mutex
	epochStart time.Time
	videos     []source.Video
	videoIDs   map[string]bool
	users      map[string]*Account
	visitors   map[string]bool
}

// New creates an engine. history and alerts may be nil; clock may be
// nil to use time.Now. The first operation on the engine fetches the
// initial video set.
func New(videos source.VideoSource, news source.NewsSource, history archive.Store, alerts *alert.Manager, clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		videoSrc:  videos,
		newsSrc:   news,
		history:   history,
		alerts:    alerts,
		now:       clock,
		newsCache: NewCache[RankedStory](NewsTTL, clock),
		videoIDs:  make(map[string]bool),
		users:     make(map[string]*Account),
		visitors:  make(map[string]bool),
	}
}

// RankedVideos returns the feed scored and ranked for one user. The
// user's account is created on first sight.
func (e *Engine) RankedVideos(ctx context.Context, userID string) []RankedVideo {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureEpochLocked(ctx)

	me := e.accountLocked(userID)
	now := e.now()

	ranked := make([]RankedVideo, 0, len(e.videos))
	for _, v := range e.videos {
		total := e.totalBoostsLocked(v.ID)
		ranked = append(ranked, RankedVideo{
			ID:          v.ID,
			URL:         v.URL,
			ThumbURL:    v.ThumbURL,
			Score:       VideoScore(v, total, now),
			MyBoosts:    me.Boosts[v.ID],
			TotalBoosts: total,
		})
	}

	sortAndRankVideos(ranked)
	if len(ranked) > MaxVideos {
		ranked = ranked[:MaxVideos]
	}
	return ranked
}

// RankedNews returns the trending headlines and the cache age. Fetching
// and clustering run at most once per TTL window; a failed or empty
// rebuild keeps serving the previous list.
func (e *Engine) RankedNews(ctx context.Context) ([]RankedStory, time.Duration) {
	e.mu.Lock()
	e.ensureEpochLocked(ctx)
	e.mu.Unlock()

	return e.newsCache.Get(func() ([]RankedStory, error) {
		return e.buildNews(ctx)
	})
}

// SubmitBoost spends BoostCost points on one video. Returns false with
// no mutation when the video is unknown or the balance is short.
func (e *Engine) SubmitBoost(ctx context.Context, userID, videoID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureEpochLocked(ctx)

	if !e.videoIDs[videoID] {
		return false
	}
	me := e.accountLocked(userID)
	if me.Points < BoostCost {
		return false
	}
	me.Points -= BoostCost
	me.Boosts[videoID]++
	return true
}

// Account returns the user's points and a copy of their boost counts,
// creating the account if needed.
func (e *Engine) Account(ctx context.Context, userID string) Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureEpochLocked(ctx)

	me := e.accountLocked(userID)
	boosts := make(map[string]int, len(me.Boosts))
	for id, n := range me.Boosts {
		boosts[id] = n
	}
	return Account{Points: me.Points, Boosts: boosts}
}

// RecordVisit marks the user as seen today.
func (e *Engine) RecordVisit(ctx context.Context, userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureEpochLocked(ctx)
	e.visitors[userID] = true
}

// Stats reports the current epoch's aggregates.
func (e *Engine) Stats(ctx context.Context) Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureEpochLocked(ctx)

	total := 0
	for _, v := range e.videos {
		total += e.totalBoostsLocked(v.ID)
	}
	return Stats{
		FeedSize:    len(e.videos),
		TotalBoosts: total,
		Visitors:    len(e.visitors),
		ResetAt:     e.epochStart.Add(EpochLength),
	}
}

// ResetAt returns when the current epoch ends.
func (e *Engine) ResetAt(ctx context.Context) time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureEpochLocked(ctx)
	return e.epochStart.Add(EpochLength)
}

// ensureEpochLocked rolls the epoch over if the boundary has passed.
// The video set, ledger, accounts and visitor set reset together or
// not at all: a failed or empty daily fetch aborts the rollover and
// the next operation retries. Also handles the very first fetch, when
// epochStart is still zero.
func (e *Engine) ensureEpochLocked(ctx context.Context) {
	now := e.now()
	if now.Sub(e.epochStart) < EpochLength {
		return
	}

	fresh, err := e.videoSrc.FetchDaily(ctx, MaxVideos)
	if err != nil {
		fmt.Fprintf(os.Stderr, "epoch rollover: daily fetch error, keeping current set: %v\n", err)
		return
	}
	if len(fresh) == 0 && len(e.videos) > 0 {
		fmt.Fprintln(os.Stderr, "epoch rollover: daily fetch empty, keeping current set")
		return
	}

	e.closeEpochLocked(ctx, now)

	ids := make(map[string]bool, len(fresh))
	for _, v := range fresh {
		ids[v.ID] = true
	}
	e.videos = fresh
	e.videoIDs = ids
	e.users = make(map[string]*Account)
	e.visitors = make(map[string]bool)
	// Realign to wall-clock midnight rather than accumulating 24h
	// steps, in case we idled past more than one boundary.
	e.epochStart = utcMidnight(now)
}

// closeEpochLocked records and announces the finished epoch's leader.
func (e *Engine) closeEpochLocked(ctx context.Context, now time.Time) {
	if e.epochStart.IsZero() || len(e.videos) == 0 {
		return
	}

	var leader source.Video
	var leaderTotal int
	leaderScore := -1.0
	for _, v := range e.videos {
		total := e.totalBoostsLocked(v.ID)
		score := VideoScore(v, total, now)
		if score > leaderScore {
			leader, leaderTotal, leaderScore = v, total, score
		}
	}

	day := e.epochStart.Format("2006-01-02")
	if e.history != nil {
		rec := &archive.Leader{
			Day:         day,
			VideoID:     leader.ID,
			URL:         leader.URL,
			Score:       leaderScore,
			TotalBoosts: leaderTotal,
			RecordedAt:  now,
		}
		if err := e.history.RecordLeader(ctx, rec); err != nil {
			fmt.Fprintf(os.Stderr, "archive leader %s: %v\n", day, err)
		}
	}

	if e.alerts != nil && e.alerts.HasNotifiers() {
		n := &alert.Notification{
			Title: fmt.Sprintf("Daily winner for %s", day),
			Body:  fmt.Sprintf("Closed at score %.1f with %d boosts", leaderScore, leaderTotal),
			URL:   leader.URL,
			Score: leaderScore,
			Day:   day,
		}
		// Never hold the engine mutex across network I/O.
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.alerts.Broadcast(sendCtx, n); err != nil {
				fmt.Fprintf(os.Stderr, "winner alert: %v\n", err)
			}
		}()
	}
}

// buildNews is the news cache producer: fetch, cluster, score, rank.
func (e *Engine) buildNews(ctx context.Context) ([]RankedStory, error) {
	entries, err := e.newsSrc.FetchEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch news entries: %w", err)
	}

	clusters := ClusterEntries(entries)
	now := e.now()

	stories := make([]RankedStory, 0, len(clusters))
	for _, c := range clusters {
		stories = append(stories, RankedStory{
			Title:       c.Title,
			Score:       NewsScore(c, now),
			SourceCount: c.UniqueSources(),
			Mentions:    c.Mentions,
			SearchQuery: url.QueryEscape(c.Title),
		})
	}

	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].Score > stories[j].Score
	})
	if len(stories) > MaxNews {
		stories = stories[:MaxNews]
	}
	for i := range stories {
		stories[i].Rank = i + 1
	}

	if e.history != nil && len(stories) > 0 {
		snaps := make([]archive.StorySnapshot, len(stories))
		for i, s := range stories {
			snaps[i] = archive.StorySnapshot{
				Title:       s.Title,
				Score:       s.Score,
				SourceCount: s.SourceCount,
				Mentions:    s.Mentions,
				CapturedAt:  now,
			}
		}
		if err := e.history.RecordStories(ctx, snaps); err != nil {
			fmt.Fprintf(os.Stderr, "archive stories: %v\n", err)
		}
	}

	return stories, nil
}

// accountLocked returns the user's account, creating it on first sight.
func (e *Engine) accountLocked(userID string) *Account {
	me, ok := e.users[userID]
	if !ok {
		me = &Account{Points: StartingPoints, Boosts: make(map[string]int)}
		e.users[userID] = me
	}
	return me
}

// totalBoostsLocked sums every user's boosts for one video.
func (e *Engine) totalBoostsLocked(videoID string) int {
	total := 0
	for _, u := range e.users {
		total += u.Boosts[videoID]
	}
	return total
}

// sortAndRankVideos orders by score descending, keeping input order on
// ties, and assigns 1-based ranks.
func sortAndRankVideos(ranked []RankedVideo) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
}

func utcMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
