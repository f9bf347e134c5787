package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"git.home.luguber.info/inful/lapwatch/internal/logfields"
	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
	"git.home.luguber.info/inful/lapwatch/internal/storage"
)

// Keys under which the session lives in the KV store.
const (
	KeyElapsed = "session/elapsed"
	KeyRunning = "session/running"
	KeyLaps    = "session/laps"
)

// lapRecord is the wire form of a lap. Elapsed travels as seconds so the
// payload stays readable without knowing Go duration syntax.
type lapRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Elapsed   float64   `json:"elapsed"`
}

// EncodeLaps marshals laps into the stored JSON array, preserving order.
func EncodeLaps(laps []stopwatch.Lap) ([]byte, error) {
	records := make([]lapRecord, len(laps))
	for i, lap := range laps {
		records[i] = lapRecord{
			ID:        lap.ID,
			Name:      lap.Name,
			CreatedAt: lap.CreatedAt,
			Elapsed:   lap.Elapsed.Seconds(),
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode laps: %w", err)
	}
	return data, nil
}

// DecodeLaps unmarshals the stored JSON array back into laps.
func DecodeLaps(data []byte) ([]stopwatch.Lap, error) {
	var records []lapRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode laps: %w", err)
	}
	laps := make([]stopwatch.Lap, len(records))
	for i, rec := range records {
		laps[i] = stopwatch.Lap{
			ID:        rec.ID,
			Name:      rec.Name,
			CreatedAt: rec.CreatedAt,
			Elapsed:   durationFromSeconds(rec.Elapsed),
		}
	}
	return laps, nil
}

// durationFromSeconds converts stored seconds back to a duration, rounding
// to the nearest nanosecond so re-encoding is stable.
func durationFromSeconds(secs float64) time.Duration {
	if secs <= 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0
	}
	return time.Duration(math.Round(secs * float64(time.Second)))
}

// Store persists and restores snapshots through a storage.KV.
type Store struct {
	kv storage.KV
}

// NewStore wraps the given KV.
func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// Save writes the snapshot. The first write failure aborts the save; the
// three keys are not transactional across each other, which is acceptable
// because every later save rewrites all of them.
func (s *Store) Save(snap stopwatch.Snapshot) error {
	if err := s.kv.SetNumber(KeyElapsed, snap.Elapsed.Seconds()); err != nil {
		return fmt.Errorf("persist elapsed: %w", err)
	}
	if err := s.kv.SetBool(KeyRunning, snap.Running); err != nil {
		return fmt.Errorf("persist running flag: %w", err)
	}
	data, err := EncodeLaps(snap.Laps)
	if err != nil {
		return err
	}
	if err := s.kv.SetBytes(KeyLaps, data); err != nil {
		return fmt.Errorf("persist laps: %w", err)
	}
	return nil
}

// Load reads the persisted session. Load never fails: missing keys mean a
// fresh session, and an unreadable value degrades to its default with a
// warning, key by key, so one corrupt entry cannot take the rest of the
// session down with it.
func (s *Store) Load() stopwatch.Snapshot {
	var snap stopwatch.Snapshot

	secs, err := s.kv.Number(KeyElapsed)
	switch {
	case err == nil:
		snap.Elapsed = durationFromSeconds(secs)
	case !errors.Is(err, storage.ErrNotFound):
		slog.Warn("persisted elapsed unreadable, starting at zero",
			logfields.Key(KeyElapsed), logfields.Error(err))
	}

	running, err := s.kv.Bool(KeyRunning)
	switch {
	case err == nil:
		snap.Running = running
	case !errors.Is(err, storage.ErrNotFound):
		slog.Warn("persisted running flag unreadable, starting stopped",
			logfields.Key(KeyRunning), logfields.Error(err))
	}

	data, err := s.kv.Bytes(KeyLaps)
	switch {
	case err == nil:
		laps, decodeErr := DecodeLaps(data)
		if decodeErr != nil {
			slog.Warn("persisted laps unreadable, starting with none",
				logfields.Key(KeyLaps), logfields.Error(decodeErr))
			break
		}
		snap.Laps = laps
	case !errors.Is(err, storage.ErrNotFound):
		slog.Warn("persisted laps unreadable, starting with none",
			logfields.Key(KeyLaps), logfields.Error(err))
	}

	return snap
}

// Clear deletes the persisted session.
func (s *Store) Clear() error {
	for _, key := range []string{KeyElapsed, KeyRunning, KeyLaps} {
		if err := s.kv.Delete(key); err != nil {
			return fmt.Errorf("clear %q: %w", key, err)
		}
	}
	return nil
}
