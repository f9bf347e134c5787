package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/lapwatch/internal/events"
	"git.home.luguber.info/inful/lapwatch/internal/logfields"
	"git.home.luguber.info/inful/lapwatch/internal/metrics"
	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
	"git.home.luguber.info/inful/lapwatch/internal/tick"
)

// publishTimeout bounds how long a mutation waits on slow event consumers
// before giving up on delivery.
const publishTimeout = time.Second

// Options configure a Session. Store is required; the rest are optional and
// default to inert implementations.
type Options struct {
	Store   *Store
	Bus     *events.Bus
	Ticks   tick.Source
	Metrics metrics.Recorder
}

// Session is the single writer for the stopwatch state.
//
// Every mutation path, user commands and tick deliveries alike, funnels
// through the session's mutex, so the engine and ledger themselves stay
// lock-free. Methods never return errors: per the session contract, an
// operation that cannot apply (renaming a deleted lap, stopping a stopped
// watch) is a silent no-op, and persistence problems are logged by the
// background saver instead of failing the operation that queued them.
type Session struct {
	mu     sync.Mutex
	engine *stopwatch.Engine
	ledger *stopwatch.Ledger

	store *Store
	bus   *events.Bus
	ticks tick.Source
	rec   metrics.Recorder

	saveMu    sync.Mutex
	dirty     chan struct{}
	quit      chan struct{}
	saverDone chan struct{}
	closeOnce sync.Once
}

// New returns a session with a running background saver. Call Close to
// flush and stop it.
func New(opts Options) *Session {
	rec := opts.Metrics
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	s := &Session{
		engine:    stopwatch.NewEngine(),
		ledger:    stopwatch.NewLedger(),
		store:     opts.Store,
		bus:       opts.Bus,
		ticks:     opts.Ticks,
		rec:       rec,
		dirty:     make(chan struct{}, 1),
		quit:      make(chan struct{}),
		saverDone: make(chan struct{}),
	}
	go s.saveLoop()
	return s
}

// Load replaces in-memory state with the persisted session and publishes a
// SessionRestored event. A session persisted mid-run resumes ticking.
// Load never fails; broken persisted state degrades to defaults.
func (s *Session) Load() {
	if s.store == nil {
		return
	}
	restored := s.store.Load()

	s.mu.Lock()
	s.engine.Restore(restored.Elapsed, restored.Running)
	s.ledger.Restore(restored.Laps)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if snap.Running {
		s.armTicks()
	}
	s.observe(snap)
	s.publish(stopwatch.SessionRestored{Change: s.change(snap)})
	slog.Debug("session restored",
		logfields.Elapsed(snap.Elapsed),
		logfields.Running(snap.Running),
		logfields.LapCount(len(snap.Laps)))
}

// Start begins accumulating time. Starting a running session is a no-op:
// the tick source stays armed exactly once and no event fires.
func (s *Session) Start() {
	s.mu.Lock()
	started := s.engine.Start()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if !started {
		return
	}
	s.armTicks()
	s.committed(stopwatch.EngineStarted{Change: s.change(snap)})
}

// Stop freezes the elapsed time. Stopping a stopped session is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	stopped := s.engine.Stop()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if !stopped {
		return
	}
	s.disarmTicks()
	s.committed(stopwatch.EngineStopped{Change: s.change(snap)})
}

// Toggle flips between running and stopped and returns the new running
// state. It publishes the same event a direct Start or Stop would.
func (s *Session) Toggle() bool {
	s.mu.Lock()
	running := s.engine.Toggle()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if running {
		s.armTicks()
		s.committed(stopwatch.EngineStarted{Change: s.change(snap)})
	} else {
		s.disarmTicks()
		s.committed(stopwatch.EngineStopped{Change: s.change(snap)})
	}
	return running
}

// Advance moves the clock forward by a measured delta. It is the tick
// source's callback but may be called directly; deltas while stopped and
// non-positive deltas are dropped.
func (s *Session) Advance(delta time.Duration) {
	if delta < 0 {
		slog.Debug("dropping negative tick delta", slog.Duration("delta", delta))
	}
	s.mu.Lock()
	changed := s.engine.Advance(delta)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if !changed {
		return
	}
	s.rec.ObserveTickDelta(delta)
	s.committed(stopwatch.TimeAdvanced{Change: s.change(snap), Delta: delta})
}

// Reset stops the clock and zeroes elapsed time. Saved laps survive.
// Resetting an already zeroed, stopped session is a no-op.
func (s *Session) Reset() {
	s.mu.Lock()
	changed := s.engine.Running() || s.engine.Elapsed() != 0
	s.engine.Reset()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if !changed {
		return
	}
	s.disarmTicks()
	s.committed(stopwatch.EngineReset{Change: s.change(snap)})
}

// SaveLap checkpoints the current elapsed time as a new lap and returns it.
func (s *Session) SaveLap() stopwatch.Lap {
	s.mu.Lock()
	lap := s.ledger.SaveLap(s.engine.Elapsed())
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.committed(stopwatch.LapSaved{Change: s.change(snap), Lap: lap})
	return lap
}

// DeleteLaps removes laps by position (newest first, zero based) and
// returns how many were removed. Invalid positions are ignored; if none
// are valid, nothing changes and no event fires.
func (s *Session) DeleteLaps(indices []int) int {
	requested := append([]int(nil), indices...)

	s.mu.Lock()
	removed := s.ledger.DeleteLaps(requested)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if removed == 0 {
		return 0
	}
	s.committed(stopwatch.LapsDeleted{Change: s.change(snap), Indices: requested, Removed: removed})
	return removed
}

// Rename relabels a lap by id and reports whether it was found. A missing
// id is a silent no-op.
func (s *Session) Rename(lapID, newName string) bool {
	s.mu.Lock()
	renamed := s.ledger.Rename(lapID, newName)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if !renamed {
		return false
	}
	s.committed(stopwatch.LapRenamed{Change: s.change(snap), LapID: lapID, Name: newName})
	return true
}

// Running reports whether the clock is accumulating time.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Running()
}

// Elapsed returns the current elapsed time.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Elapsed()
}

// Laps returns a copy of the saved laps, newest first.
func (s *Session) Laps() []stopwatch.Lap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Laps()
}

// TotalLapTime sums the saved lap times.
func (s *Session) TotalLapTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.TotalLapTime()
}

// Snapshot returns a consistent copy of the full session state.
func (s *Session) Snapshot() stopwatch.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Flush writes the current snapshot through the store synchronously.
// Concurrent flushes are serialized so an older snapshot can never
// overwrite a newer one.
func (s *Session) Flush() error {
	if s.store == nil {
		return nil
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := s.store.Save(s.Snapshot()); err != nil {
		s.rec.IncSaveResult(metrics.SaveFailed)
		return err
	}
	s.rec.IncSaveResult(metrics.SaveSuccess)
	return nil
}

// Close disarms the tick source, stops the background saver, and writes a
// final snapshot. Safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.disarmTicks()
		close(s.quit)
		<-s.saverDone
		err = s.Flush()
	})
	return err
}

func (s *Session) snapshotLocked() stopwatch.Snapshot {
	return stopwatch.Snapshot{
		Running: s.engine.Running(),
		Elapsed: s.engine.Elapsed(),
		Laps:    s.ledger.Laps(),
	}
}

func (s *Session) change(snap stopwatch.Snapshot) stopwatch.Change {
	return stopwatch.Change{Time: time.Now(), Snapshot: snap}
}

// committed runs the shared tail of every effective mutation: queue a save,
// bump metrics, publish the event.
func (s *Session) committed(evt stopwatch.Event) {
	s.queueSave()
	s.rec.IncOp(evt.Op())
	s.observe(evt.State())
	s.publish(evt)
}

func (s *Session) observe(snap stopwatch.Snapshot) {
	s.rec.SetElapsed(snap.Elapsed)
	s.rec.SetRunning(snap.Running)
	s.rec.SetLapCount(len(snap.Laps))
}

func (s *Session) publish(evt stopwatch.Event) {
	if s.bus == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.bus.Publish(ctx, evt); err != nil && !errors.Is(err, events.ErrClosed) {
		slog.Debug("event delivery incomplete", logfields.Op(evt.Op()), logfields.Error(err))
	}
}

func (s *Session) armTicks() {
	if s.ticks != nil {
		s.ticks.Arm(s.Advance)
	}
}

func (s *Session) disarmTicks() {
	if s.ticks != nil {
		s.ticks.Disarm()
	}
}

// queueSave marks the session dirty without blocking. Back-to-back
// mutations coalesce into one write of the latest snapshot.
func (s *Session) queueSave() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *Session) saveLoop() {
	defer close(s.saverDone)
	for {
		select {
		case <-s.quit:
			return
		case <-s.dirty:
			if err := s.Flush(); err != nil {
				slog.Warn("background session save failed", logfields.Error(err))
			}
		}
	}
}
