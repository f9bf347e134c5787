package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteJournal opens (creating if needed) the journal database.
// Use ":memory:" for an in-memory journal, or a file path for persistence.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}

	j := &SQLiteJournal{db: db}
	if err := j.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize journal schema: %w", err)
	}

	return j, nil
}

func (j *SQLiteJournal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mutations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		op TEXT NOT NULL,
		at INTEGER NOT NULL,
		elapsed REAL NOT NULL,
		running INTEGER NOT NULL,
		lap_count INTEGER NOT NULL,
		detail TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_mutations_op ON mutations(op);
	CREATE INDEX IF NOT EXISTS idx_mutations_at ON mutations(at);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Append adds an entry.
func (j *SQLiteJournal) Append(ctx context.Context, entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var detailJSON []byte
	if entry.Detail != nil {
		var err error
		detailJSON, err = json.Marshal(entry.Detail)
		if err != nil {
			return fmt.Errorf("marshal detail: %w", err)
		}
	}

	running := 0
	if entry.Running {
		running = 1
	}

	_, err := j.db.ExecContext(ctx,
		"INSERT INTO mutations (op, at, elapsed, running, lap_count, detail) VALUES (?, ?, ?, ?, ?, ?)",
		entry.Op, entry.At.Unix(), entry.Elapsed.Seconds(), running, entry.LapCount, detailJSON,
	)
	if err != nil {
		return fmt.Errorf("insert mutation: %w", err)
	}

	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns nothing.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx,
		"SELECT id, op, at, elapsed, running, lap_count, detail FROM mutations ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query mutations: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			atUnix     int64
			elapsedSec float64
			running    int64
			detailJSON []byte
		)

		err := rows.Scan(&e.ID, &e.Op, &atUnix, &elapsedSec, &running, &e.LapCount, &detailJSON)
		if err != nil {
			return nil, fmt.Errorf("scan mutation: %w", err)
		}

		e.At = time.Unix(atUnix, 0)
		e.Elapsed = time.Duration(math.Round(elapsedSec * float64(time.Second)))
		e.Running = running != 0

		if len(detailJSON) > 0 {
			if err := json.Unmarshal(detailJSON, &e.Detail); err != nil {
				return nil, fmt.Errorf("unmarshal detail: %w", err)
			}
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return entries, nil
}

// Clear removes all entries.
func (j *SQLiteJournal) Clear(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.db.ExecContext(ctx, "DELETE FROM mutations"); err != nil {
		return fmt.Errorf("clear mutations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}
