package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Leader is the closing winner of one epoch.
type Leader struct {
	Day         string    `db:"day" json:"day"`
	VideoID     string    `db:"video_id" json:"video_id"`
	URL         string    `db:"url" json:"url"`
	Score       float64   `db:"score" json:"score"`
	TotalBoosts int       `db:"total_boosts" json:"total_boosts"`
	RecordedAt  time.Time `db:"recorded_at" json:"recorded_at"`
}

// StorySnapshot is one trending headline as it ranked at capture time.
type StorySnapshot struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Score       float64   `db:"score" json:"score"`
	SourceCount int       `db:"source_count" json:"source_count"`
	Mentions    int       `db:"mentions" json:"mentions"`
	CapturedAt  time.Time `db:"captured_at" json:"captured_at"`
}

// Store is the history interface. History only: nothing in the engine
// is ever restored from it.
type Store interface {
	RecordLeader(ctx context.Context, l *Leader) error
	ListLeaders(ctx context.Context, limit int) ([]Leader, error)
	RecordStories(ctx context.Context, snaps []StorySnapshot) error
	ListStories(ctx context.Context, since time.Time, limit int) ([]StorySnapshot, error)
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) RecordLeader(ctx context.Context, l *Leader) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_leaders (day, video_id, url, score, total_boosts, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			video_id = excluded.video_id,
			url = excluded.url,
			score = excluded.score,
			total_boosts = excluded.total_boosts,
			recorded_at = excluded.recorded_at
	`, l.Day, l.VideoID, l.URL, l.Score, l.TotalBoosts, l.RecordedAt)
	if err != nil {
		return fmt.Errorf("record leader %s: %w", l.Day, err)
	}
	return nil
}

func (s *SQLiteStore) ListLeaders(ctx context.Context, limit int) ([]Leader, error) {
	if limit <= 0 {
		limit = 30
	}
	var leaders []Leader
	err := s.db.SelectContext(ctx, &leaders,
		"SELECT * FROM daily_leaders ORDER BY day DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list leaders: %w", err)
	}
	return leaders, nil
}

func (s *SQLiteStore) RecordStories(ctx context.Context, snaps []StorySnapshot) error {
	for i := range snaps {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO story_snapshots (title, score, source_count, mentions, captured_at)
			VALUES (?, ?, ?, ?, ?)
		`, snaps[i].Title, snaps[i].Score, snaps[i].SourceCount, snaps[i].Mentions, snaps[i].CapturedAt)
		if err != nil {
			return fmt.Errorf("record story %q: %w", snaps[i].Title, err)
		}
	}
	return nil
}

func (s *SQLiteStore) ListStories(ctx context.Context, since time.Time, limit int) ([]StorySnapshot, error) {
	if limit <= 0 {
		limit = 100
	}
	var snaps []StorySnapshot
	err := s.db.SelectContext(ctx, &snaps,
		"SELECT * FROM story_snapshots WHERE captured_at >= ? ORDER BY captured_at DESC LIMIT ?",
		since, limit)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return snaps, nil
}
