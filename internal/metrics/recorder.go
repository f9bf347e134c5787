package metrics

import "time"

// SaveResultLabel enumerates persistence outcome categories for counters.
type SaveResultLabel string

const (
	SaveSuccess SaveResultLabel = "success"
	SaveFailed  SaveResultLabel = "failed"
)

// Recorder defines observability hooks for stopwatch activity.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe for nil receivers when using the NoopRecorder (allowing
// optional injection).
type Recorder interface {
	IncOp(op string)
	IncSaveResult(result SaveResultLabel)
	ObserveTickDelta(d time.Duration)
	SetElapsed(d time.Duration)
	SetRunning(running bool)
	SetLapCount(n int)
	IncEventsDropped(component string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) IncOp(string)                   {}
func (NoopRecorder) IncSaveResult(SaveResultLabel)  {}
func (NoopRecorder) ObserveTickDelta(time.Duration) {}
func (NoopRecorder) SetElapsed(time.Duration)       {}
func (NoopRecorder) SetRunning(bool)                {}
func (NoopRecorder) SetLapCount(int)                {}
func (NoopRecorder) IncEventsDropped(string)        {}
