package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SummaryRecord is one archived weekly summary: the structured record
// for a (source, week range), payload stored as JSON. Re-running the
// same week upserts in place.
type SummaryRecord struct {
	ID        int64     `db:"id"`
	Source    string    `db:"source"`
	WeekRange string    `db:"week_range"`
	Title     string    `db:"title"`
	Payload   string    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

// RunRecord logs one reporting run.
type RunRecord struct {
	ID         int64     `db:"id"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	Sources    string    `db:"sources"`
	Reported   int       `db:"reported"`
	Failed     int       `db:"failed"`
}

// ListOpts controls summary listing.
type ListOpts struct {
	Source string
	Limit  int
}

// Store is the persistence interface for the summary archive.
type Store interface {
	UpsertSummary(ctx context.Context, rec *SummaryRecord) error
	LatestSummary(ctx context.Context, source string) (*SummaryRecord, error)
	LatestSummaries(ctx context.Context) ([]SummaryRecord, error)
	ListSummaries(ctx context.Context, opts ListOpts) ([]SummaryRecord, error)
	RecordRun(ctx context.Context, run *RunRecord) error
	Close() error
}

// ErrNotFound is returned when no summary exists for a source.
var ErrNotFound = errors.New("store: not found")

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

func (s *SQLiteStore) UpsertSummary(ctx context.Context, rec *SummaryRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO summaries (source, week_range, title, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source, week_range) DO UPDATE SET
			title = excluded.title,
			payload = excluded.payload,
			created_at = excluded.created_at
	`, rec.Source, rec.WeekRange, rec.Title, rec.Payload, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert summary %s %s: %w", rec.Source, rec.WeekRange, err)
	}
	if rec.ID == 0 {
		rec.ID, _ = res.LastInsertId()
	}
	return nil
}

func (s *SQLiteStore) LatestSummary(ctx context.Context, source string) (*SummaryRecord, error) {
	var rec SummaryRecord
	err := s.db.GetContext(ctx, &rec,
		"SELECT * FROM summaries WHERE source = ? ORDER BY week_range DESC LIMIT 1", source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest summary %s: %w", source, err)
	}
	return &rec, nil
}

// LatestSummaries returns the most recent summary per source, ordered
// by source name. Week ranges are ISO dates so MAX() is chronological.
func (s *SQLiteStore) LatestSummaries(ctx context.Context) ([]SummaryRecord, error) {
	var recs []SummaryRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT s.* FROM summaries s
		JOIN (SELECT source, MAX(week_range) AS wr FROM summaries GROUP BY source) m
			ON s.source = m.source AND s.week_range = m.wr
		ORDER BY s.source
	`)
	if err != nil {
		return nil, fmt.Errorf("latest summaries: %w", err)
	}
	return recs, nil
}

func (s *SQLiteStore) ListSummaries(ctx context.Context, opts ListOpts) ([]SummaryRecord, error) {
	query := "SELECT * FROM summaries WHERE 1=1"
	var args []any

	if opts.Source != "" {
		query += " AND source = ?"
		args = append(args, opts.Source)
	}

	query += " ORDER BY week_range DESC, source"

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ?"
	args = append(args, limit)

	var recs []SummaryRecord
	if err := s.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	return recs, nil
}

func (s *SQLiteStore) RecordRun(ctx context.Context, run *RunRecord) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (started_at, finished_at, sources, reported, failed)
		VALUES (?, ?, ?, ?, ?)
	`, run.StartedAt, run.FinishedAt, run.Sources, run.Reported, run.Failed)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	run.ID, _ = res.LastInsertId()
	return nil
}
