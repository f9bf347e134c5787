package stopwatch

import "time"

// Engine owns the stopwatch's elapsed time and running flag.
type Engine struct {
	running bool
	elapsed time.Duration
}

// NewEngine returns a stopped engine with zero elapsed time.
func NewEngine() *Engine {
	return &Engine{}
}

// Start marks the engine running. Starting an already running engine is a
// no-op. It reports whether the call transitioned the engine from stopped
// to running, so callers can arm their tick source exactly once.
func (e *Engine) Start() bool {
	if e.running {
		return false
	}
	e.running = true
	return true
}

// Stop freezes the elapsed time. Stopping an already stopped engine is a
// no-op. It reports whether the call transitioned the engine to stopped.
func (e *Engine) Stop() bool {
	if !e.running {
		return false
	}
	e.running = false
	return true
}

// Toggle starts a stopped engine and stops a running one, returning the new
// running state.
func (e *Engine) Toggle() bool {
	if e.running {
		e.running = false
	} else {
		e.running = true
	}
	return e.running
}

// Advance adds delta to the elapsed time. Deltas arriving while the engine
// is stopped are dropped, and elapsed time never decreases: a non-positive
// delta is a no-op. It reports whether the elapsed time changed.
func (e *Engine) Advance(delta time.Duration) bool {
	if !e.running || delta <= 0 {
		return false
	}
	e.elapsed += delta
	return true
}

// Reset stops the engine and zeroes the elapsed time. Saved laps are a
// separate concern and are never touched by a reset.
func (e *Engine) Reset() {
	e.running = false
	e.elapsed = 0
}

// Running reports whether the engine is accumulating time.
func (e *Engine) Running() bool {
	return e.running
}

// Elapsed returns the accumulated running duration.
func (e *Engine) Elapsed() time.Duration {
	return e.elapsed
}

// Restore overwrites the engine with persisted state. Negative elapsed
// values are clamped to zero.
func (e *Engine) Restore(elapsed time.Duration, running bool) {
	if elapsed < 0 {
		elapsed = 0
	}
	e.elapsed = elapsed
	e.running = running
}
