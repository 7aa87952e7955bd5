package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/teamlens/alignd/internal/domain/model"
	"github.com/teamlens/alignd/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS goals (
	code         TEXT PRIMARY KEY,
	goal_text    TEXT NOT NULL,
	context_text TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses (
	id             TEXT PRIMARY KEY,
	code           TEXT NOT NULL,
	member_name    TEXT NOT NULL,
	role           TEXT NOT NULL,
	understanding  TEXT NOT NULL,
	score          INTEGER NOT NULL,
	recommendation TEXT NOT NULL,
	feedback       TEXT NOT NULL,
	is_fallback    INTEGER NOT NULL DEFAULT 0,
	created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_code ON analyses(code, created_at);
CREATE INDEX IF NOT EXISTS idx_analyses_member ON analyses(member_name, created_at);
`

// SQLiteStore implements Store on a single sqlite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// applies the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// PutGoal stores a goal; a reused code overwrites the previous goal.
func (s *SQLiteStore) PutGoal(ctx context.Context, g model.Goal) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (code, goal_text, context_text, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			goal_text    = excluded.goal_text,
			context_text = excluded.context_text,
			created_at   = excluded.created_at`,
		g.Code, g.GoalText, g.ContextText, g.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: put goal: %v", ErrUnavailable, err)
	}
	return nil
}

// GetGoal resolves a code to its active goal.
func (s *SQLiteStore) GetGoal(ctx context.Context, code string) (model.Goal, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	var (
		g  model.Goal
		ts string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT code, goal_text, context_text, created_at
		FROM goals WHERE code = ?`, code).
		Scan(&g.Code, &g.GoalText, &g.ContextText, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Goal{}, ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreError()
		return model.Goal{}, fmt.Errorf("%w: get goal: %v", ErrUnavailable, err)
	}
	g.CreatedAt = parseTime(ts)
	return g, nil
}

// AppendAnalysis writes one immutable analysis record.
func (s *SQLiteStore) AppendAnalysis(ctx context.Context, a model.Analysis) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, code, member_name, role, understanding,
			score, recommendation, feedback, is_fallback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Code, a.MemberName, a.Role, a.Understanding,
		a.Verdict.Score, string(a.Verdict.Recommendation), a.Verdict.Feedback,
		boolToInt(a.IsFallback), a.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: append analysis: %v", ErrUnavailable, err)
	}
	return nil
}

// RecentByTeam returns up to n analyses for a team code, newest first.
func (s *SQLiteStore) RecentByTeam(ctx context.Context, code string, n int) ([]model.Analysis, error) {
	return s.recent(ctx, "code", code, n)
}

// RecentByMember returns up to n analyses for a member, newest first.
func (s *SQLiteStore) RecentByMember(ctx context.Context, name string, n int) ([]model.Analysis, error) {
	return s.recent(ctx, "member_name", name, n)
}

func (s *SQLiteStore) recent(ctx context.Context, column, value string, n int) ([]model.Analysis, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, code, member_name, role, understanding,
			score, recommendation, feedback, is_fallback, created_at
		FROM analyses WHERE %s = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, column), value, n)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: query analyses: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	out := make([]model.Analysis, 0, n)
	for rows.Next() {
		var (
			a        model.Analysis
			rec      string
			fallback int
			ts       string
		)
		if err := rows.Scan(&a.ID, &a.Code, &a.MemberName, &a.Role, &a.Understanding,
			&a.Verdict.Score, &rec, &a.Verdict.Feedback, &fallback, &ts); err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("%w: scan analysis: %v", ErrUnavailable, err)
		}
		a.Verdict.Recommendation = model.Recommendation(rec)
		a.IsFallback = fallback != 0
		a.CreatedAt = parseTime(ts)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: iterate analyses: %v", ErrUnavailable, err)
	}
	return out, nil
}

// CountGoals returns the number of stored goals.
func (s *SQLiteStore) CountGoals(ctx context.Context) (int, error) {
	return s.count(ctx, "goals")
}

// CountAnalyses returns the number of stored analyses.
func (s *SQLiteStore) CountAnalyses(ctx context.Context) (int, error) {
	return s.count(ctx, "analyses")
}

func (s *SQLiteStore) count(ctx context.Context, table string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	if err != nil {
		metrics.RecordStoreError()
		return 0, fmt.Errorf("%w: count %s: %v", ErrUnavailable, table, err)
	}
	return n, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
