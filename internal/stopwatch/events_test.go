package stopwatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventOps(t *testing.T) {
	now := time.Now()
	snap := Snapshot{Running: true, Elapsed: time.Second}
	change := Change{Time: now, Snapshot: snap}

	tests := []struct {
		evt    Event
		wantOp string
	}{
		{EngineStarted{Change: change}, OpStart},
		{EngineStopped{Change: change}, OpStop},
		{TimeAdvanced{Change: change, Delta: 10 * time.Millisecond}, OpAdvance},
		{EngineReset{Change: change}, OpReset},
		{LapSaved{Change: change, Lap: Lap{ID: "x"}}, OpLapSave},
		{LapsDeleted{Change: change, Indices: []int{0}, Removed: 1}, OpLapDelete},
		{LapRenamed{Change: change, LapID: "x", Name: "y"}, OpLapRename},
		{SessionRestored{Change: change}, OpRestore},
	}

	for _, tt := range tests {
		t.Run(tt.wantOp, func(t *testing.T) {
			require.Equal(t, tt.wantOp, tt.evt.Op())
			require.Equal(t, now, tt.evt.At())
			require.Equal(t, snap, tt.evt.State())
		})
	}
}

func TestSnapshotTotalLapTime(t *testing.T) {
	snap := Snapshot{
		Laps: []Lap{
			{Elapsed: 2500 * time.Millisecond},
			{Elapsed: 1250 * time.Millisecond},
		},
	}
	require.Equal(t, 3750*time.Millisecond, snap.TotalLapTime())
}
