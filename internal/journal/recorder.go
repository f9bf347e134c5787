package journal

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/lapwatch/internal/events"
	"git.home.luguber.info/inful/lapwatch/internal/logfields"
	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
)

// appendTimeout bounds each journal write so a stuck database cannot wedge
// the recording goroutine forever.
const appendTimeout = time.Second

// Recorder copies stopwatch change events from the bus into a journal.
type Recorder struct {
	journal Journal
}

// NewRecorder returns a recorder writing to j.
func NewRecorder(j Journal) *Recorder {
	return &Recorder{journal: j}
}

// Start subscribes to the bus and appends an entry per mutation until ctx
// is done or the bus closes. The returned stop func unsubscribes and waits
// for the recording goroutine to drain.
//
// Advance events are skipped: ticks arrive continuously while running and
// are not user actions, so they stay out of the history.
func (r *Recorder) Start(ctx context.Context, bus *events.Bus) func() {
	ch, unsub := events.Subscribe[stopwatch.Event](bus, 64)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-ch:
				if !ok {
					return
				}
				if evt.Op() == stopwatch.OpAdvance {
					continue
				}
				r.append(evt)
			}
		}
	}()

	return func() {
		unsub()
		<-done
	}
}

func (r *Recorder) append(evt stopwatch.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()

	if err := r.journal.Append(ctx, entryFromEvent(evt)); err != nil {
		slog.Warn("journal append failed",
			logfields.Component("journal"),
			logfields.Op(evt.Op()),
			logfields.Error(err))
	}
}

func entryFromEvent(evt stopwatch.Event) Entry {
	snap := evt.State()
	entry := Entry{
		Op:       evt.Op(),
		At:       evt.At(),
		Elapsed:  snap.Elapsed,
		Running:  snap.Running,
		LapCount: len(snap.Laps),
	}

	switch e := evt.(type) {
	case stopwatch.LapSaved:
		entry.Detail = map[string]string{
			"lap_id":      e.Lap.ID,
			"lap_name":    e.Lap.Name,
			"lap_elapsed": stopwatch.FormatElapsed(e.Lap.Elapsed),
		}
	case stopwatch.LapsDeleted:
		entry.Detail = map[string]string{
			"removed": strconv.Itoa(e.Removed),
			"indices": joinInts(e.Indices),
		}
	case stopwatch.LapRenamed:
		entry.Detail = map[string]string{
			"lap_id":   e.LapID,
			"lap_name": e.Name,
		}
	}

	return entry
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
