// Package requestlog persists one row per answered question, giving operators
// a durable history of what was asked, which upstream answered it, and whether
// the cache helped. Writes are best effort; the ask flow never depends on them.
package requestlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Entry is a single answered (or failed) question.
type Entry struct {
	TraceID      string
	Question     string
	Provider     string
	Model        string
	CacheHit     bool
	DurationMs   int64
	ErrorMessage string
	CreatedAt    time.Time
}

// Writer persists question log entries.
type Writer interface {
	Write(ctx context.Context, entry Entry) error
}

// NoopWriter ignores all log writes.
type NoopWriter struct{}

func (NoopWriter) Write(_ context.Context, _ Entry) error { return nil }

// SQLWriter persists entries to SQLite or Postgres.
type SQLWriter struct {
	db      *sql.DB
	dialect string
}

// NewSQLiteWriter opens (and if necessary initialises) a SQLite question log
// at dsn. An empty dsn uses culturebot-questions.db in the working directory.
func NewSQLiteWriter(dsn string) (*SQLWriter, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = "culturebot-questions.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite question log: %w", err)
	}
	w := &SQLWriter{db: db, dialect: "sqlite"}
	if err := w.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

// NewPostgresWriter opens a Postgres question log at dsn.
func NewPostgresWriter(dsn string) (*SQLWriter, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres question log: %w", err)
	}
	w := &SQLWriter{db: db, dialect: "postgres"}
	if err := w.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *SQLWriter) init() error {
	if err := w.db.Ping(); err != nil {
		return fmt.Errorf("ping %s question log: %w", w.dialect, err)
	}

	ddl := `
CREATE TABLE IF NOT EXISTS question_logs (
	id INTEGER PRIMARY KEY,
	trace_id TEXT,
	question TEXT NOT NULL,
	provider TEXT,
	model TEXT,
	cache_hit BOOLEAN NOT NULL,
	duration_ms INTEGER NOT NULL,
	error_message TEXT,
	created_at TIMESTAMP NOT NULL
);`

	if w.dialect == "postgres" {
		ddl = `
CREATE TABLE IF NOT EXISTS question_logs (
	id BIGSERIAL PRIMARY KEY,
	trace_id TEXT,
	question TEXT NOT NULL,
	provider TEXT,
	model TEXT,
	cache_hit BOOLEAN NOT NULL,
	duration_ms BIGINT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL
);`
	}

	if _, err := w.db.Exec(ddl); err != nil {
		return fmt.Errorf("initialize question log schema: %w", err)
	}
	return nil
}

// Write inserts one entry.
func (w *SQLWriter) Write(ctx context.Context, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO question_logs(trace_id, question, provider, model, cache_hit, duration_ms, error_message, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?)`
	if w.dialect == "postgres" {
		query = `INSERT INTO question_logs(trace_id, question, provider, model, cache_hit, duration_ms, error_message, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)`
	}

	_, err := w.db.ExecContext(ctx, query,
		entry.TraceID,
		entry.Question,
		entry.Provider,
		entry.Model,
		entry.CacheHit,
		entry.DurationMs,
		entry.ErrorMessage,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("write question log: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (w *SQLWriter) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT trace_id, question, provider, model, cache_hit, duration_ms, error_message, created_at
	FROM question_logs ORDER BY created_at DESC LIMIT ?`
	if w.dialect == "postgres" {
		query = `SELECT trace_id, question, provider, model, cache_hit, duration_ms, error_message, created_at
		FROM question_logs ORDER BY created_at DESC LIMIT $1`
	}

	rows, err := w.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list question log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.TraceID, &e.Question, &e.Provider, &e.Model, &e.CacheHit, &e.DurationMs, &e.ErrorMessage, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question log row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database handle.
func (w *SQLWriter) Close() error {
	if w == nil || w.db == nil {
		return nil
	}
	return w.db.Close()
}
