package stopwatch

import "time"

// Operation names carried by events. Journal entries and metrics labels use
// the same strings.
const (
	OpStart     = "start"
	OpStop      = "stop"
	OpAdvance   = "advance"
	OpReset     = "reset"
	OpLapSave   = "lap.save"
	OpLapDelete = "lap.delete"
	OpLapRename = "lap.rename"
	OpRestore   = "restore"
)

// Event is the change notification published once per completed mutation.
// Operations that end up not changing anything (starting a running engine,
// renaming a deleted lap) publish nothing.
type Event interface {
	// Op names the mutation, e.g. "start" or "lap.delete".
	Op() string
	// At is the time the mutation completed.
	At() time.Time
	// State is the snapshot taken immediately after the mutation.
	State() Snapshot
}

// Change carries the fields shared by all stopwatch events.
type Change struct {
	Time     time.Time
	Snapshot Snapshot
}

// At returns the time the mutation completed.
func (c Change) At() time.Time { return c.Time }

// State returns the post-mutation snapshot.
func (c Change) State() Snapshot { return c.Snapshot }

// EngineStarted is published when the engine transitions to running.
type EngineStarted struct {
	Change
}

func (EngineStarted) Op() string { return OpStart }

// EngineStopped is published when the engine transitions to stopped.
type EngineStopped struct {
	Change
}

func (EngineStopped) Op() string { return OpStop }

// TimeAdvanced is published for every tick that moved the elapsed time.
// It fires at the tick cadence while running, so subscribers that persist
// or transmit should treat it as a continuous signal, not a user action.
type TimeAdvanced struct {
	Change
	Delta time.Duration
}

func (TimeAdvanced) Op() string { return OpAdvance }

// EngineReset is published when elapsed time is zeroed.
type EngineReset struct {
	Change
}

func (EngineReset) Op() string { return OpReset }

// LapSaved is published when a lap is recorded.
type LapSaved struct {
	Change
	Lap Lap
}

func (LapSaved) Op() string { return OpLapSave }

// LapsDeleted is published when one or more laps are removed.
type LapsDeleted struct {
	Change
	Indices []int
	Removed int
}

func (LapsDeleted) Op() string { return OpLapDelete }

// LapRenamed is published when a lap's name changes.
type LapRenamed struct {
	Change
	LapID string
	Name  string
}

func (LapRenamed) Op() string { return OpLapRename }

// SessionRestored is published once after persisted state is loaded.
type SessionRestored struct {
	Change
}

func (SessionRestored) Op() string { return OpRestore }
