package stopwatch

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/lapwatch/internal/util/sets"
)

// Ledger is the ordered collection of saved laps, newest first.
type Ledger struct {
	laps []Lap
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// SaveLap records a lap capturing the given elapsed time and inserts it at
// the front of the sequence. The default name is positional: saving into a
// ledger that already holds n laps yields "Lap n+1". Negative elapsed values
// are clamped to zero.
func (l *Ledger) SaveLap(elapsed time.Duration) Lap {
	if elapsed < 0 {
		elapsed = 0
	}
	lap := Lap{
		ID:        uuid.NewString(),
		Name:      fmt.Sprintf("Lap %d", len(l.laps)+1),
		CreatedAt: time.Now(),
		Elapsed:   elapsed,
	}
	l.laps = append([]Lap{lap}, l.laps...)
	return lap
}

// DeleteLaps removes the laps at the given positions in one atomic update.
// Positions refer to the ordering before removal, so deleting {0, 2} drops
// the first and third laps no matter how the slice would have shifted.
// Out-of-range and duplicate positions are ignored; the remaining positions
// still apply. It returns the number of laps removed.
func (l *Ledger) DeleteLaps(indices []int) int {
	if len(indices) == 0 {
		return 0
	}
	drop := sets.New[int]()
	for _, i := range indices {
		if i >= 0 && i < len(l.laps) {
			drop.Add(i)
		}
	}
	if len(drop) == 0 {
		return 0
	}
	kept := make([]Lap, 0, len(l.laps)-len(drop))
	for i, lap := range l.laps {
		if drop.Has(i) {
			continue
		}
		kept = append(kept, lap)
	}
	l.laps = kept
	return len(drop)
}

// Rename relabels the lap with the given id. A missing id is a silent
// no-op: the lap may have been deleted since the caller observed it. It
// reports whether a lap was updated.
func (l *Ledger) Rename(lapID, newName string) bool {
	for i := range l.laps {
		if l.laps[i].ID == lapID {
			l.laps[i].Name = newName
			return true
		}
	}
	return false
}

// TotalLapTime sums the recorded elapsed time across all laps.
func (l *Ledger) TotalLapTime() time.Duration {
	var total time.Duration
	for _, lap := range l.laps {
		total += lap.Elapsed
	}
	return total
}

// Laps returns a copy of the lap sequence, newest first.
func (l *Ledger) Laps() []Lap {
	out := make([]Lap, len(l.laps))
	copy(out, l.laps)
	return out
}

// Len returns the number of recorded laps.
func (l *Ledger) Len() int {
	return len(l.laps)
}

// Restore replaces the ledger contents with persisted laps.
func (l *Ledger) Restore(laps []Lap) {
	l.laps = make([]Lap, len(laps))
	copy(l.laps, laps)
}
