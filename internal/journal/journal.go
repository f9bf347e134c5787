// Package journal records completed stopwatch mutations for the history
// command.
//
// The journal is an observer, not a dependency of the core: it subscribes
// to the event bus like any other consumer, so a broken journal can never
// block or fail a stopwatch operation.
package journal

import (
	"context"
	"time"
)

// Entry is one recorded mutation with the session summary at that moment.
type Entry struct {
	ID       int64
	Op       string
	At       time.Time
	Elapsed  time.Duration
	Running  bool
	LapCount int
	Detail   map[string]string
}

// Journal persists mutation entries.
type Journal interface {
	// Append adds an entry. The entry's ID is assigned by the journal.
	Append(ctx context.Context, entry Entry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close closes the journal and releases resources.
	Close() error
}
