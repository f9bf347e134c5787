package stopwatch

import "time"

// Snapshot is an immutable copy of the combined engine and ledger state.
// Events carry a Snapshot so observers never share memory with the core.
type Snapshot struct {
	Running bool
	Elapsed time.Duration
	Laps    []Lap
}

// TotalLapTime sums the lap elapsed times captured in the snapshot.
func (s Snapshot) TotalLapTime() time.Duration {
	var total time.Duration
	for _, lap := range s.Laps {
		total += lap.Elapsed
	}
	return total
}
