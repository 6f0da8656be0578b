// Package requestlog persists one row per LLM invocation for audit and
// debugging. SQLite (embedded) and Postgres backends share one writer.
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

// Entry is a persisted invocation record. ErrorMessage is empty on success;
// credential values are never part of an entry.
type Entry struct {
	TraceID      string
	Provider     string
	Model        string
	Shape        string
	Status       string
	ErrorMessage string
	LatencyMS    int64
	CreatedAt    time.Time
}

// Writer persists invocation entries.
type Writer interface {
	Write(ctx context.Context, entry Entry) error
}

// NoopWriter ignores all writes. It is the default when no store is
// configured.
type NoopWriter struct{}

// Write implements Writer.
func (NoopWriter) Write(_ context.Context, _ Entry) error { return nil }

// SQLWriter persists entries to SQLite or Postgres.
type SQLWriter struct {
	db      *sql.DB
	dialect string
}

// NewSQLiteWriter opens (and initialises) an embedded SQLite store.
func NewSQLiteWriter(dsn string) (*SQLWriter, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = "venturekit-requests.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite request log: %w", err)
	}
	w := &SQLWriter{db: db, dialect: "sqlite"}
	if err := w.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

// NewPostgresWriter opens (and initialises) a Postgres store.
func NewPostgresWriter(dsn string) (*SQLWriter, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres request log: %w", err)
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
		return fmt.Errorf("ping %s request log: %w", w.dialect, err)
	}
	ddl := `CREATE TABLE IF NOT EXISTS llm_requests (
		trace_id TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		shape TEXT NOT NULL,
		status TEXT NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		latency_ms BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`
	if _, err := w.db.Exec(ddl); err != nil {
		return fmt.Errorf("create llm_requests table: %w", err)
	}
	return nil
}

// Write implements Writer.
func (w *SQLWriter) Write(ctx context.Context, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO llm_requests
		(trace_id, provider, model, shape, status, error_message, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if w.dialect == "postgres" {
		query = `INSERT INTO llm_requests
			(trace_id, provider, model, shape, status, error_message, latency_ms, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	}
	_, err := w.db.ExecContext(ctx, query,
		entry.TraceID, entry.Provider, entry.Model, entry.Shape,
		entry.Status, entry.ErrorMessage, entry.LatencyMS, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert llm_requests row: %w", err)
	}
	return nil
}

// Count returns the number of persisted entries, optionally filtered by
// provider (empty matches all).
func (w *SQLWriter) Count(ctx context.Context, provider string) (int, error) {
	var n int
	var err error
	if provider == "" {
		err = w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM llm_requests`).Scan(&n)
	} else if w.dialect == "postgres" {
		err = w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM llm_requests WHERE provider = $1`, provider).Scan(&n)
	} else {
		err = w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM llm_requests WHERE provider = ?`, provider).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count llm_requests rows: %w", err)
	}
	return n, nil
}

// Close releases the underlying database handle.
func (w *SQLWriter) Close() error { return w.db.Close() }
