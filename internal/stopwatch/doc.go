// Package stopwatch provides the core stopwatch domain model.
//
// Key components:
//   - Engine: running/stopped state machine accumulating elapsed time
//   - Ledger: ordered collection of saved laps, newest first
//   - Lap: a named checkpoint of elapsed time
//   - Snapshot: immutable copy of combined engine and ledger state
//   - Event: change notification published after each completed mutation
//
// Engine and Ledger are plain state machines: they perform no I/O, never
// block, and are not safe for concurrent use on their own. Callers that mix
// tick delivery with user actions must serialize access (see
// internal/session, which owns exactly that job).
package stopwatch
