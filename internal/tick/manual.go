package tick

import (
	"sync"
	"time"
)

// Manual is a Source driven by explicit Fire calls, for tests.
type Manual struct {
	mu       sync.Mutex
	fn       func(delta time.Duration)
	armCalls int
}

// NewManual returns a disarmed manual source.
func NewManual() *Manual {
	return &Manual{}
}

// Arm records the callback. Re-arming while armed keeps the original
// callback, matching the Source contract.
func (m *Manual) Arm(fn func(delta time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.armCalls++
	if m.fn != nil {
		return
	}
	m.fn = fn
}

// Disarm drops the callback.
func (m *Manual) Disarm() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fn = nil
}

// Fire delivers one delta to the armed callback. Firing while disarmed is
// a no-op. It reports whether a callback was invoked.
func (m *Manual) Fire(delta time.Duration) bool {
	m.mu.Lock()
	fn := m.fn
	m.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(delta)
	return true
}

// Armed reports whether a callback is currently registered.
func (m *Manual) Armed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.fn != nil
}

// ArmCalls returns how many times Arm has been invoked, for asserting that
// repeated starts do not stack tick deliveries.
func (m *Manual) ArmCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.armCalls
}
