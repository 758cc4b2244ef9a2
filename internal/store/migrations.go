package store

const schema = `
CREATE TABLE IF NOT EXISTS summaries (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    source     TEXT NOT NULL,
    week_range TEXT NOT NULL,
    title      TEXT NOT NULL DEFAULT '',
    payload    TEXT NOT NULL DEFAULT '{}',
    created_at DATETIME NOT NULL,
    UNIQUE(source, week_range)
);

CREATE INDEX IF NOT EXISTS idx_summaries_source ON summaries(source);
CREATE INDEX IF NOT EXISTS idx_summaries_range ON summaries(week_range);

CREATE TABLE IF NOT EXISTS runs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at  DATETIME NOT NULL,
    finished_at DATETIME NOT NULL,
    sources     TEXT NOT NULL DEFAULT '',
    reported    INTEGER NOT NULL DEFAULT 0,
    failed      INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`
