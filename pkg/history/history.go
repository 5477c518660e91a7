// Package history records generated excerpts in a SQLite database so a
// session's output can be reviewed later. Only the text produced and the
// parameters used are stored; the n-gram model itself is never persisted.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entry is a single generated excerpt.
type Entry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Corpus    string    `json:"corpus"`
	Order     int       `json:"order"`
	Requested int       `json:"requested"`
	Excerpt   string    `json:"excerpt"`
}

// Stats holds aggregated statistics for the history database.
type Stats struct {
	Entries int `json:"entries"` // The number of recorded excerpts.
	Corpora int `json:"corpora"` // The number of distinct corpus files excerpts were generated from.
	Words   int `json:"words"`   // The total number of words requested across all excerpts.
}

// SetupSchema initializes the history table in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const (
		schemaHistory = `
CREATE TABLE IF NOT EXISTS ngram_history (
    entry_id TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL,
    corpus TEXT NOT NULL,
    model_order INTEGER NOT NULL,
    requested INTEGER NOT NULL,
    excerpt TEXT NOT NULL
);
`
		indexCreated = `CREATE INDEX IF NOT EXISTS idx_ngram_history_created ON ngram_history (created_at);`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaHistory); err != nil {
		return fmt.Errorf("could not create history schema: %w", err)
	}
	if _, err = tx.Exec(indexCreated); err != nil {
		return fmt.Errorf("could not create history index: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Store reads and writes history entries through prepared statements.
type Store struct {
	db         *sql.DB
	stmtInsert *sql.Stmt
	stmtList   *sql.Stmt
	stmtStats  *sql.Stmt
	stmtClear  *sql.Stmt
	logger     *slog.Logger
	now        func() time.Time
}

// NewStore creates a Store over a database that already has the schema from
// SetupSchema. It pre-compiles all statements, returning an error if any
// preparation fails.
func NewStore(db *sql.DB) (*Store, error) {
	var prepared []*sql.Stmt
	prepare := func(query string) (*sql.Stmt, error) {
		stmt, err := db.Prepare(query)
		if err != nil {
			for _, p := range prepared {
				_ = p.Close()
			}
			return nil, err
		}
		prepared = append(prepared, stmt)
		return stmt, nil
	}

	stmtInsert, err := prepare(`INSERT INTO ngram_history (entry_id, created_at, corpus, model_order, requested, excerpt) VALUES (?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtList, err := prepare(`SELECT entry_id, created_at, corpus, model_order, requested, excerpt FROM ngram_history ORDER BY entry_id DESC LIMIT ?;`)
	if err != nil {
		return nil, err
	}

	stmtStats, err := prepare(`SELECT COUNT(*), COUNT(DISTINCT corpus), coalesce(SUM(requested), 0) FROM ngram_history;`)
	if err != nil {
		return nil, err
	}

	stmtClear, err := prepare(`DELETE FROM ngram_history;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:         db,
		stmtInsert: stmtInsert,
		stmtList:   stmtList,
		stmtStats:  stmtStats,
		stmtClear:  stmtClear,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
	}, nil
}

// Close releases all prepared statements held by the Store. The database
// itself is owned by the caller.
func (s *Store) Close() {
	_ = s.stmtInsert.Close()
	_ = s.stmtList.Close()
	_ = s.stmtStats.Close()
	_ = s.stmtClear.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Record stores an excerpt. ID and CreatedAt are assigned here; any values
// set by the caller are replaced. The stored entry is returned.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	created := s.now().UTC()
	id, err := ulid.New(ulid.Timestamp(created), ulid.DefaultEntropy())
	if err != nil {
		return Entry{}, fmt.Errorf("could not create entry id: %w", err)
	}
	e.ID = id.String()
	e.CreatedAt = created.Truncate(time.Millisecond)

	if _, err = s.stmtInsert.ExecContext(ctx, e.ID, e.CreatedAt.UnixMilli(), e.Corpus, e.Order, e.Requested, e.Excerpt); err != nil {
		return Entry{}, fmt.Errorf("could not insert history entry: %w", err)
	}

	s.logger.DebugContext(ctx, "History entry recorded",
		slog.String("entry_id", e.ID),
		slog.String("corpus", e.Corpus),
		slog.Int("requested", e.Requested),
	)
	return e, nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as no limit.
	}
	rows, err := s.stmtList.QueryContext(ctx, limit)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var created int64
		if err = rows.Scan(&e.ID, &created, &e.Corpus, &e.Order, &e.Requested, &e.Excerpt); err != nil {
			return nil, err
		}
		e.CreatedAt = time.UnixMilli(created).UTC()
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetStats returns a snapshot of statistics for the history table.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.stmtStats.QueryRowContext(ctx).Scan(&stats.Entries, &stats.Corpora, &stats.Words)
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// Clear removes every entry and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.stmtClear.ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not clear history: %w", err)
	}
	removed, _ := res.RowsAffected()

	s.logger.InfoContext(ctx, "History cleared",
		slog.Int64("entries_removed", removed),
	)
	return removed, nil
}
