package metrics

import (
	"sync"
	"time"
)

// CaptureRecorder is a Recorder that counts calls.
type CaptureRecorder struct {
	mu          sync.Mutex
	Ops         map[string]int
	SaveResults map[SaveResultLabel]int
	TickDeltas  int
	LastElapsed time.Duration
	LastRunning bool
	LastLaps    int
	Dropped     map[string]int
}

func NewCaptureRecorder() *CaptureRecorder {
	return &CaptureRecorder{
		Ops:         map[string]int{},
		SaveResults: map[SaveResultLabel]int{},
		Dropped:     map[string]int{},
	}
}

func (c *CaptureRecorder) IncOp(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Ops[op]++
}

func (c *CaptureRecorder) IncSaveResult(result SaveResultLabel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SaveResults[result]++
}

func (c *CaptureRecorder) ObserveTickDelta(time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.TickDeltas++
}

func (c *CaptureRecorder) SetElapsed(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LastElapsed = d
}

func (c *CaptureRecorder) SetRunning(running bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LastRunning = running
}

func (c *CaptureRecorder) SetLapCount(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LastLaps = n
}

func (c *CaptureRecorder) IncEventsDropped(component string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Dropped[component]++
}

// OpCount returns how many times op was recorded.
func (c *CaptureRecorder) OpCount(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Ops[op]
}
