// Package tick provides the time source driving the stopwatch.
//
// The session never reads wall-clock time itself. It arms a Source with a
// callback and advances by whatever deltas the source reports, which keeps
// the core deterministic under test (see Manual) and honest under scheduler
// jitter (see Interval, which reports measured deltas rather than assuming
// its nominal period).
package tick

import (
	"sync"
	"time"
)

// DefaultPeriod is the nominal tick interval, one hundredth of a second,
// matching the finest field of the stopwatch display.
const DefaultPeriod = 10 * time.Millisecond

// Source delivers elapsed-time deltas to an armed callback.
//
// Arm while armed and Disarm while disarmed are no-ops, so callers do not
// need to track source state. Disarm must not return while a callback
// invocation is still in flight.
type Source interface {
	// Arm starts delivery. fn is called from the source's goroutine with
	// the measured time since the previous tick.
	Arm(fn func(delta time.Duration))
	// Disarm stops delivery and waits for any in-flight callback.
	Disarm()
}

// Interval is a Source backed by a time.Ticker.
//
// Deltas are measured between tick arrivals instead of assuming the nominal
// period: when the runtime delivers ticks late or drops them under load,
// the reported delta spans the whole gap and the stopwatch stays true to
// wall time.
type Interval struct {
	period time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewInterval returns a disarmed interval source. A non-positive period
// falls back to DefaultPeriod.
func NewInterval(period time.Duration) *Interval {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Interval{period: period}
}

// Period returns the nominal tick interval.
func (t *Interval) Period() time.Duration {
	return t.period
}

// Arm starts the tick goroutine. Arming an armed source is a no-op.
func (t *Interval) Arm(fn func(delta time.Duration)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	t.stop = stop
	t.done = done

	go t.loop(fn, stop, done)
}

func (t *Interval) loop(fn func(delta time.Duration), stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.period)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			fn(now.Sub(last))
			last = now
		}
	}
}

// Disarm stops the tick goroutine and waits for it to exit. Disarming a
// disarmed source is a no-op.
//
// Do not call Disarm from inside the armed callback, and do not call it
// while holding a lock the callback takes.
func (t *Interval) Disarm() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop = nil
	t.done = nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
