package archive

const schema = `
CREATE TABLE IF NOT EXISTS daily_leaders (
    day          TEXT PRIMARY KEY,
    video_id     TEXT NOT NULL,
    url          TEXT NOT NULL DEFAULT '',
    score        REAL NOT NULL DEFAULT 0,
    total_boosts INTEGER NOT NULL DEFAULT 0,
    recorded_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS story_snapshots (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    title        TEXT NOT NULL,
    score        REAL NOT NULL DEFAULT 0,
    source_count INTEGER NOT NULL DEFAULT 0,
    mentions     INTEGER NOT NULL DEFAULT 0,
    captured_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_captured ON story_snapshots(captured_at);
`
